package entities

import "time"

type Widget struct {
	ID                 string         `json:"id"`
	TenantID           string         `json:"tenantId"`
	Name               string         `json:"name"`
	Description        string         `json:"description,omitempty"`
	Config             map[string]any `json:"config"`
	WebhookURL         string         `json:"webhookUrl,omitempty"`
	APIKey             string         `json:"apiKey"`
	IsActive           bool           `json:"isActive"`
	TotalMessages      int64          `json:"totalMessages"`
	TotalConversations int64          `json:"totalConversations"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// AIModel returns the configured model identifier, defaulting to the
// same model the default config document carries.
func (w *Widget) AIModel() string {
	if ai, ok := w.Config["ai"].(map[string]any); ok {
		if model, ok := ai["model"].(string); ok && model != "" {
			return model
		}
	}
	return "gpt-3.5-turbo"
}

// DefaultWidgetConfig returns the baseline config document new widgets
// start from. Caller-supplied fields are merged over it.
func DefaultWidgetConfig() map[string]any {
	return map[string]any{
		"theme": map[string]any{
			"primaryColor":   "#007bff",
			"secondaryColor": "#6c757d",
			"fontFamily":     "Inter, sans-serif",
			"borderRadius":   "8px",
		},
		"behavior": map[string]any{
			"greeting":    "Hello! How can I help you today?",
			"placeholder": "Type your message...",
			"position":    "bottom-right",
			"minimized":   false,
		},
		"ai": map[string]any{
			"model":       "gpt-3.5-turbo",
			"maxTokens":   500,
			"temperature": 0.7,
		},
	}
}

// MergeWidgetConfig deep-merges override into base. Nested maps merge
// key by key; any other value in override replaces the base value.
func MergeWidgetConfig(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		if ov, ok := v.(map[string]any); ok {
			if bv, ok := merged[k].(map[string]any); ok {
				merged[k] = MergeWidgetConfig(bv, ov)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}
