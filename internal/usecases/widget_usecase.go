package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

type WidgetUsecase struct {
	widgets      interfaces.WidgetStore
	tenants      interfaces.TenantStore
	widgetCDNURL string
}

func NewWidgetUsecase(widgets interfaces.WidgetStore, tenants interfaces.TenantStore, widgetCDNURL string) *WidgetUsecase {
	return &WidgetUsecase{widgets: widgets, tenants: tenants, widgetCDNURL: widgetCDNURL}
}

type CreateWidgetInput struct {
	Name        string
	Description string
	Config      map[string]any
	WebhookURL  string
}

// Create makes a new widget for the tenant, enforcing the plan ceiling
// and merging the caller's config over the default document.
func (uc *WidgetUsecase) Create(ctx context.Context, tenantID string, in CreateWidgetInput) (*entities.Widget, error) {
	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, entities.ErrNotFound
	}

	count, err := uc.widgets.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= entities.WidgetLimit(tenant.SubscriptionPlan) {
		return nil, &entities.PlanLimitError{Plan: tenant.SubscriptionPlan}
	}

	config := entities.DefaultWidgetConfig()
	if in.Config != nil {
		config = entities.MergeWidgetConfig(config, in.Config)
	}

	widget := &entities.Widget{
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Config:      config,
		WebhookURL:  in.WebhookURL,
		APIKey:      uuid.NewString(),
		IsActive:    true,
	}
	if err := uc.widgets.Create(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (uc *WidgetUsecase) List(ctx context.Context, tenantID string) ([]entities.Widget, error) {
	return uc.widgets.ListByTenant(ctx, tenantID)
}

func (uc *WidgetUsecase) Get(ctx context.Context, tenantID, id string) (*entities.Widget, error) {
	widget, err := uc.widgets.GetOwned(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if widget == nil {
		return nil, entities.ErrNotFound
	}
	return widget, nil
}

type UpdateWidgetInput struct {
	Name        *string
	Description *string
	Config      map[string]any
	WebhookURL  *string
	IsActive    *bool
}

func (uc *WidgetUsecase) Update(ctx context.Context, tenantID, id string, in UpdateWidgetInput) (*entities.Widget, error) {
	widget, err := uc.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		widget.Name = *in.Name
	}
	if in.Description != nil {
		widget.Description = *in.Description
	}
	if in.Config != nil {
		widget.Config = in.Config
	}
	if in.WebhookURL != nil {
		widget.WebhookURL = *in.WebhookURL
	}
	if in.IsActive != nil {
		widget.IsActive = *in.IsActive
	}

	if err := uc.widgets.Update(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (uc *WidgetUsecase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.widgets.Delete(ctx, tenantID, id)
}

func (uc *WidgetUsecase) RegenerateKey(ctx context.Context, tenantID, id string) (string, error) {
	widget, err := uc.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}

	widget.APIKey = uuid.NewString()
	if err := uc.widgets.Update(ctx, widget); err != nil {
		return "", err
	}
	return widget.APIKey, nil
}

type EmbedCode struct {
	EmbedCode    string   `json:"embedCode"`
	WidgetID     string   `json:"widgetId"`
	Instructions []string `json:"instructions"`
}

func (uc *WidgetUsecase) Embed(ctx context.Context, tenantID, id string) (*EmbedCode, error) {
	widget, err := uc.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	code := fmt.Sprintf(`<script>
  (function() {
    var script = document.createElement('script');
    script.src = '%s/widget.js';
    script.setAttribute('data-widget-id', '%s');
    script.async = true;
    document.head.appendChild(script);
  })();
</script>`, uc.widgetCDNURL, widget.ID)

	return &EmbedCode{
		EmbedCode: code,
		WidgetID:  widget.ID,
		Instructions: []string{
			"Copy the embed code above",
			"Paste it into your website's HTML, preferably before the closing </body> tag",
			"The widget will automatically load and display on your site",
		},
	}, nil
}

// PublicConfig is the sanitized bootstrap document served to the embed
// script. API keys and counters are not part of it.
type PublicConfig struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Config      map[string]any `json:"config"`
	APIEndpoint string         `json:"apiEndpoint"`
	WebhookURL  string         `json:"webhookUrl,omitempty"`
}

func (uc *WidgetUsecase) GetPublicConfig(ctx context.Context, widgetID string) (*PublicConfig, error) {
	widget, err := uc.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if widget == nil || !widget.IsActive {
		return nil, entities.ErrNotFound
	}

	tenant, err := uc.tenants.GetByID(ctx, widget.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.CanUseWidgets() {
		return nil, entities.ErrNotFound
	}

	return &PublicConfig{
		ID:          widget.ID,
		Name:        widget.Name,
		Config:      widget.Config,
		APIEndpoint: fmt.Sprintf("%s/api/v1/widgets/%s/chat", uc.widgetCDNURL, widget.ID),
		WebhookURL:  widget.WebhookURL,
	}, nil
}
