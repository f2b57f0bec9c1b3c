package interfaces

import (
	"context"
	"time"

	"ttchat/internal/entities"
)

type TenantStore interface {
	Create(ctx context.Context, tenant *entities.Tenant) error
	GetByID(ctx context.Context, id string) (*entities.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*entities.Tenant, error)
	UpdateProfile(ctx context.Context, id, name, avatar string) (*entities.Tenant, error)
}

type WidgetStore interface {
	Create(ctx context.Context, widget *entities.Widget) error
	GetByID(ctx context.Context, id string) (*entities.Widget, error)
	GetOwned(ctx context.Context, tenantID, id string) (*entities.Widget, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Widget, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
	Update(ctx context.Context, widget *entities.Widget) error
	Delete(ctx context.Context, tenantID, id string) error
	// RecordActivity bumps total_messages by messages and, when
	// newConversation is set, total_conversations by one.
	RecordActivity(ctx context.Context, id string, messages int, newConversation bool) error
}

type ConversationStore interface {
	// FindOrCreate binds sessionID to a conversation. The returned
	// boolean is true only when this call created the row; concurrent
	// first messages on the same session resolve to a single row.
	FindOrCreate(ctx context.Context, widgetID, tenantID, sessionID string) (*entities.Conversation, bool, error)
	AppendMessage(ctx context.Context, msg *entities.Message) error
}

type IntegrationStore interface {
	Upsert(ctx context.Context, integ *entities.Integration) error
	GetByTokenRef(ctx context.Context, tokenRef string) (*entities.Integration, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Integration, error)
	// UpdateMetadata returns ErrNotFound when the tenant has no row
	// for the provider.
	UpdateMetadata(ctx context.Context, tenantID, provider string, metadata map[string]any) error
	Delete(ctx context.Context, tenantID, provider string) error
}

type BotConfigStore interface {
	Upsert(ctx context.Context, cfg *entities.BotConfig) error
	GetByTenant(ctx context.Context, tenantID string) (*entities.BotConfig, error)
}

// TokenGrant is what the broker hands back for an authorization code.
type TokenGrant struct {
	TokenRef   string
	ExternalID string
	Scopes     []string
	Metadata   map[string]any
}

// AccessToken is a freshly minted short-lived provider token. It is
// returned to the caller and never persisted.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenBroker is the external OAuth broker holding the real provider
// credentials. This service only ever sees opaque token references.
type TokenBroker interface {
	AuthorizeURL(provider string, scopes []string, state, redirectURI string) string
	ExchangeCode(ctx context.Context, provider, code string) (*TokenGrant, error)
	MintAccessToken(ctx context.Context, tokenRef string) (*AccessToken, error)
}

// WebhookSender forwards activation payloads to the downstream
// automation system.
type WebhookSender interface {
	Send(ctx context.Context, tenantID string, payload any) error
}

// Responder produces the assistant reply for an inbound widget message.
type Responder interface {
	GenerateResponse(ctx context.Context, message string, aiConfig map[string]any) (string, error)
}
