package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

type AuthUsecase struct {
	tenants      interfaces.TenantStore
	botConfigs   interfaces.BotConfigStore
	integrations interfaces.IntegrationStore
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthUsecase(tenants interfaces.TenantStore, botConfigs interfaces.BotConfigStore, integrations interfaces.IntegrationStore, secret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		tenants:      tenants,
		botConfigs:   botConfigs,
		integrations: integrations,
		jwtSecret:    []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, email, password, name string) (*entities.Tenant, string, error) {
	existing, err := uc.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", entities.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	tenant := &entities.Tenant{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
	}
	if err := uc.tenants.Create(ctx, tenant); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(tenant.ID)
	if err != nil {
		return nil, "", err
	}
	return tenant, token, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*entities.Tenant, string, error) {
	tenant, err := uc.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if tenant == nil {
		return nil, "", entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(password)); err != nil {
		return nil, "", entities.ErrInvalidCredentials
	}

	token, err := uc.signToken(tenant.ID)
	if err != nil {
		return nil, "", err
	}
	return tenant, token, nil
}

// Profile is the /auth/me view: the tenant plus its bot config and
// integration summaries. Token references stay server-side.
type Profile struct {
	*entities.Tenant
	BotConfig    *entities.BotConfig  `json:"botConfig"`
	Integrations []IntegrationSummary `json:"integrations"`
}

type IntegrationSummary struct {
	Provider   string         `json:"provider"`
	ExternalID string         `json:"externalId,omitempty"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"connectedAt"`
}

func (uc *AuthUsecase) Me(ctx context.Context, tenantID string) (*Profile, error) {
	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, entities.ErrNotFound
	}

	botConfig, err := uc.botConfigs.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	integrations, err := uc.integrations.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summaries := make([]IntegrationSummary, 0, len(integrations))
	for _, integ := range integrations {
		summaries = append(summaries, IntegrationSummary{
			Provider:   integ.Provider,
			ExternalID: integ.ExternalID,
			Metadata:   integ.Metadata,
			CreatedAt:  integ.CreatedAt,
		})
	}

	return &Profile{Tenant: tenant, BotConfig: botConfig, Integrations: summaries}, nil
}

func (uc *AuthUsecase) UpdateProfile(ctx context.Context, tenantID, name, avatar string) (*entities.Tenant, error) {
	tenant, err := uc.tenants.UpdateProfile(ctx, tenantID, name, avatar)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, entities.ErrNotFound
	}
	return tenant, nil
}

// VerifyToken parses a bearer token and returns the tenant id it was
// issued for.
func (uc *AuthUsecase) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", entities.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", entities.ErrUnauthorized
	}
	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", entities.ErrUnauthorized
	}
	return tenantID, nil
}

func (uc *AuthUsecase) signToken(tenantID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": tenantID,
		"exp":       time.Now().Add(uc.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
