package entities

import "time"

type Service struct {
	Name        string  `json:"name"`
	DurationMin int     `json:"durationMin"`
	Price       float64 `json:"price"`
}

type FAQ struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// BotConfig is the per-tenant business profile the bot is built from.
// One row per tenant, upserted as a whole document on every save.
type BotConfig struct {
	TenantID  string                `json:"tenantId"`
	Phone     string                `json:"phone,omitempty"`
	Timezone  string                `json:"timezone"`
	Address   string                `json:"address,omitempty"`
	Services  []Service             `json:"services"`
	Hours     map[string][][]string `json:"hours"`
	FAQs      []FAQ                 `json:"faqs"`
	Brand     map[string]any        `json:"brand"`
	Flags     map[string]any        `json:"flags"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}
