package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

type IntegrationUsecase struct {
	integrations   interfaces.IntegrationStore
	broker         interfaces.TokenBroker
	apiURL         string
	resolverAPIKey string
	logger         *zap.Logger
}

func NewIntegrationUsecase(integrations interfaces.IntegrationStore, broker interfaces.TokenBroker, apiURL, resolverAPIKey string, logger *zap.Logger) *IntegrationUsecase {
	return &IntegrationUsecase{
		integrations:   integrations,
		broker:         broker,
		apiURL:         apiURL,
		resolverAPIKey: resolverAPIKey,
		logger:         logger,
	}
}

// StartURL returns the broker authorize URL for a provider. The tenant
// id travels as the opaque OAuth state.
func (uc *IntegrationUsecase) StartURL(provider, tenantID string) (string, error) {
	scopes, ok := entities.ProviderScopes[provider]
	if !ok {
		return "", entities.NewValidationError("Invalid provider")
	}

	redirectURI := fmt.Sprintf("%s/api/integrations/%s/callback", uc.apiURL, provider)
	return uc.broker.AuthorizeURL(provider, scopes, tenantID, redirectURI), nil
}

// HandleCallback exchanges the authorization code with the broker and
// upserts the integration row. Only the opaque token reference is
// stored.
func (uc *IntegrationUsecase) HandleCallback(ctx context.Context, provider, code, tenantID string) error {
	if _, ok := entities.ProviderScopes[provider]; !ok {
		return entities.NewValidationError("Invalid provider")
	}
	if code == "" || tenantID == "" {
		return entities.NewValidationError("Missing code or state")
	}

	grant, err := uc.broker.ExchangeCode(ctx, provider, code)
	if err != nil {
		return err
	}

	return uc.integrations.Upsert(ctx, &entities.Integration{
		TenantID:   tenantID,
		Provider:   provider,
		ExternalID: grant.ExternalID,
		TokenRef:   grant.TokenRef,
		Scopes:     grant.Scopes,
		Metadata:   grant.Metadata,
	})
}

type ProviderStatus struct {
	Connected   bool           `json:"connected"`
	ExternalID  string         `json:"externalId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	ConnectedAt time.Time      `json:"connectedAt"`
}

// Status reports per-provider connection state. Disconnected providers
// map to null.
func (uc *IntegrationUsecase) Status(ctx context.Context, tenantID string) (map[string]*ProviderStatus, error) {
	integrations, err := uc.integrations.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	status := map[string]*ProviderStatus{
		entities.ProviderGoogle:    nil,
		entities.ProviderFacebook:  nil,
		entities.ProviderInstagram: nil,
	}
	for _, integ := range integrations {
		status[integ.Provider] = &ProviderStatus{
			Connected:   true,
			ExternalID:  integ.ExternalID,
			Metadata:    integ.Metadata,
			ConnectedAt: integ.CreatedAt,
		}
	}
	return status, nil
}

type TokenResolution struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Provider    string    `json:"provider"`
}

// ResolveToken validates the server-to-server credential, looks the
// integration up by token reference and mints a fresh short-lived token
// from the broker. Nothing is cached or persisted.
func (uc *IntegrationUsecase) ResolveToken(ctx context.Context, tokenRef, callerAPIKey string) (*TokenResolution, error) {
	if uc.resolverAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(callerAPIKey), []byte(uc.resolverAPIKey)) != 1 {
		return nil, entities.ErrUnauthorized
	}
	if tokenRef == "" {
		return nil, entities.NewValidationError("Token reference required")
	}

	integration, err := uc.integrations.GetByTokenRef(ctx, tokenRef)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, entities.ErrNotFound
	}

	token, err := uc.broker.MintAccessToken(ctx, tokenRef)
	if err != nil {
		uc.logger.Error("token mint failed",
			zap.String("provider", integration.Provider),
			zap.Error(err))
		return nil, err
	}

	return &TokenResolution{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		Provider:    integration.Provider,
	}, nil
}

func (uc *IntegrationUsecase) Disconnect(ctx context.Context, tenantID, provider string) error {
	return uc.integrations.Delete(ctx, tenantID, provider)
}
