package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

type ActivationUsecase struct {
	botConfigs   interfaces.BotConfigStore
	integrations interfaces.IntegrationStore
	webhook      interfaces.WebhookSender
	clientURL    string
	apiURL       string
	logger       *zap.Logger
}

func NewActivationUsecase(botConfigs interfaces.BotConfigStore, integrations interfaces.IntegrationStore, webhook interfaces.WebhookSender, clientURL, apiURL string, logger *zap.Logger) *ActivationUsecase {
	return &ActivationUsecase{
		botConfigs:   botConfigs,
		integrations: integrations,
		webhook:      webhook,
		clientURL:    clientURL,
		apiURL:       apiURL,
		logger:       logger,
	}
}

type SaveConfigInput struct {
	Phone              string                `json:"phone"`
	Timezone           string                `json:"timezone"`
	Address            string                `json:"address"`
	Services           []entities.Service    `json:"services"`
	Hours              map[string][][]string `json:"hours"`
	FAQs               []entities.FAQ        `json:"faqs"`
	Brand              map[string]any        `json:"brand"`
	Flags              map[string]any        `json:"flags"`
	SelectedCalendarID string                `json:"selectedCalendarId"`
}

// Save upserts the tenant's bot configuration as a whole document and,
// when a calendar was picked, records it on the google integration.
func (uc *ActivationUsecase) Save(ctx context.Context, tenantID string, in SaveConfigInput) (*entities.BotConfig, error) {
	cfg := &entities.BotConfig{
		TenantID: tenantID,
		Phone:    in.Phone,
		Timezone: in.Timezone,
		Address:  in.Address,
		Services: in.Services,
		Hours:    in.Hours,
		FAQs:     in.FAQs,
		Brand:    in.Brand,
		Flags:    in.Flags,
	}
	if err := uc.botConfigs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}

	if in.SelectedCalendarID != "" {
		err := uc.integrations.UpdateMetadata(ctx, tenantID, entities.ProviderGoogle,
			map[string]any{"calendarId": in.SelectedCalendarID})
		switch {
		case errors.Is(err, entities.ErrNotFound):
			// No google integration yet; the selection is dropped and
			// has to be re-sent after connecting.
			uc.logger.Debug("calendar selection ignored, google not connected",
				zap.String("tenant_id", tenantID))
		case err != nil:
			return nil, err
		}
	}
	return cfg, nil
}

// Payload shapes mirror what the downstream automation workflows
// consume; the field names are part of that contract.
type ActivationPayload struct {
	TenantID     string                    `json:"tenant_id"`
	Bot          BotPayload                `json:"bot"`
	Integrations map[string]map[string]any `json:"integrations"`
	Routing      RoutingPayload            `json:"routing"`
}

type BotPayload struct {
	Phone        string                `json:"phone"`
	Timezone     string                `json:"timezone"`
	Address      string                `json:"address"`
	Services     []entities.Service    `json:"services"`
	FAQs         []entities.FAQ        `json:"faqs"`
	Hours        map[string][][]string `json:"hours"`
	Brand        map[string]any        `json:"brand"`
	ChatLinkBase string                `json:"chatLinkBase"`
}

type RoutingPayload struct {
	SrcTags       []string `json:"srcTags"`
	BookingPolicy string   `json:"bookingPolicy"`
}

type ActivationResult struct {
	Status       string             `json:"status"`
	RequestID    string             `json:"n8nRequestId"`
	ChatLink     string             `json:"chatLink"`
	EmbedSnippet string             `json:"embedSnippet"`
	Payload      *ActivationPayload `json:"payload"`
}

// Activate builds the denormalized activation snapshot and forwards it
// to the automation webhook. Delivery is best-effort: activation state
// lives here, the downstream system is an at-most-once notified
// subscriber, so a failed POST is logged and the call still succeeds.
func (uc *ActivationUsecase) Activate(ctx context.Context, tenantID string) (*ActivationResult, error) {
	botConfig, err := uc.botConfigs.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if botConfig == nil {
		return nil, entities.NewValidationError("Please save configuration first")
	}

	integrations, err := uc.integrations.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var google *entities.Integration
	for i := range integrations {
		if integrations[i].Provider == entities.ProviderGoogle {
			google = &integrations[i]
		}
	}
	if google == nil || google.CalendarID() == "" {
		return nil, entities.NewValidationError("Google Calendar not configured")
	}

	payload := uc.buildPayload(tenantID, botConfig, integrations)

	if err := uc.webhook.Send(ctx, tenantID, payload); err != nil {
		uc.logger.Warn("activation webhook delivery failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
	}

	chatLink := fmt.Sprintf("%s/chat/%s?src=direct", uc.clientURL, tenantID)
	embedSnippet := fmt.Sprintf("<script async src=\"%s/widget.js\"></script>\n<div id=\"tt-chat\" data-tenant=\"%s\"></div>", uc.apiURL, tenantID)

	return &ActivationResult{
		Status:       "activated",
		RequestID:    strconv.FormatInt(time.Now().UnixMilli(), 10),
		ChatLink:     chatLink,
		EmbedSnippet: embedSnippet,
		Payload:      payload,
	}, nil
}

func (uc *ActivationUsecase) buildPayload(tenantID string, cfg *entities.BotConfig, integrations []entities.Integration) *ActivationPayload {
	bot := BotPayload{
		Phone:        cfg.Phone,
		Timezone:     cfg.Timezone,
		Address:      cfg.Address,
		Services:     cfg.Services,
		FAQs:         cfg.FAQs,
		Hours:        cfg.Hours,
		Brand:        cfg.Brand,
		ChatLinkBase: fmt.Sprintf("%s/chat/%s", uc.clientURL, tenantID),
	}

	// Unset business fields get demo defaults so the downstream
	// workflows always receive a complete document.
	if bot.Phone == "" {
		bot.Phone = "+1-256-935-1911"
	}
	if bot.Timezone == "" {
		bot.Timezone = "America/Chicago"
	}
	if bot.Address == "" {
		bot.Address = "510 E Meighan Blvd a10, Gadsden, AL 35903"
	}
	if len(bot.Services) == 0 {
		bot.Services = []entities.Service{
			{Name: "First Visit", DurationMin: 30, Price: 29},
			{Name: "Adjustment", DurationMin: 15, Price: 45},
		}
	}
	if len(bot.FAQs) == 0 {
		bot.FAQs = []entities.FAQ{
			{Q: "Do you take walk-ins?", A: "Yes, subject to availability."},
			{Q: "Is the $29 special available?", A: "Yes — consult, exam and adjustment."},
		}
	}
	if len(bot.Hours) == 0 {
		bot.Hours = map[string][][]string{
			"mon": {{"10:00", "14:00"}, {"14:45", "19:00"}},
			"tue": {{"10:00", "14:00"}, {"14:45", "19:00"}},
			"wed": {},
			"thu": {{"10:00", "14:00"}, {"14:45", "19:00"}},
			"fri": {{"10:00", "14:00"}, {"14:45", "19:00"}},
			"sat": {{"10:00", "16:00"}},
			"sun": {},
		}
	}
	if len(bot.Brand) == 0 {
		bot.Brand = map[string]any{
			"primaryColor": "#0EA5E9",
			"logoUrl":      "https://cdn/brand/logo.png",
		}
	}

	integrationRefs := map[string]map[string]any{}
	for _, integ := range integrations {
		switch integ.Provider {
		case entities.ProviderGoogle:
			calendarID := integ.CalendarID()
			if calendarID == "" {
				calendarID = "primary"
			}
			integrationRefs["google"] = map[string]any{
				"calendarId": calendarID,
				"tokenRef":   integ.TokenRef,
			}
			// Gmail sends through the same Google grant.
			integrationRefs["gmail"] = map[string]any{
				"tokenRef": integ.TokenRef,
			}
		case entities.ProviderFacebook:
			integrationRefs["facebook"] = map[string]any{
				"pageId":   integ.ExternalID,
				"tokenRef": integ.TokenRef,
			}
		case entities.ProviderInstagram:
			integrationRefs["instagram"] = map[string]any{
				"igBusinessId": integ.ExternalID,
				"tokenRef":     integ.TokenRef,
			}
		}
	}

	return &ActivationPayload{
		TenantID:     tenantID,
		Bot:          bot,
		Integrations: integrationRefs,
		Routing: RoutingPayload{
			SrcTags:       []string{"Website", "Facebook", "Instagram", "SMS", "Email"},
			BookingPolicy: "first_available",
		},
	}
}

type OnboardingConfig struct {
	BotConfig    *entities.BotConfig  `json:"botConfig"`
	Integrations []IntegrationSummary `json:"integrations"`
}

func (uc *ActivationUsecase) GetConfig(ctx context.Context, tenantID string) (*OnboardingConfig, error) {
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
	return &OnboardingConfig{BotConfig: botConfig, Integrations: summaries}, nil
}

// ChatLink returns the shareable direct chat URL for the tenant.
func (uc *ActivationUsecase) ChatLink(tenantID string) string {
	return fmt.Sprintf("%s/chat/%s?src=direct", uc.clientURL, tenantID)
}
