package entities

import "time"

const (
	ProviderGoogle    = "google"
	ProviderFacebook  = "facebook"
	ProviderInstagram = "instagram"
)

// ProviderScopes lists the OAuth scopes requested per provider when
// starting a flow with the broker.
var ProviderScopes = map[string][]string{
	ProviderGoogle: {
		"openid",
		"email",
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/gmail.send",
	},
	ProviderFacebook: {
		"pages_show_list",
		"pages_manage_metadata",
		"pages_messaging",
		"pages_read_engagement",
	},
	ProviderInstagram: {
		"instagram_basic",
		"instagram_manage_messages",
	},
}

// Integration maps a tenant's connection to an OAuth provider onto an
// opaque token reference held by the external broker. Raw provider
// tokens are never stored here.
type Integration struct {
	ID         string         `json:"id"`
	TenantID   string         `json:"tenantId"`
	Provider   string         `json:"provider"`
	ExternalID string         `json:"externalId,omitempty"`
	TokenRef   string         `json:"-"`
	Scopes     []string       `json:"scopes"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// CalendarID returns the selected Google calendar id, if any.
func (i *Integration) CalendarID() string {
	if i.Metadata == nil {
		return ""
	}
	id, _ := i.Metadata["calendarId"].(string)
	return id
}
