package entities

import "time"

const (
	RoleUser      = "USER"
	RoleAssistant = "ASSISTANT"
)

const MessageTypeText = "TEXT"

// Conversation is a chat session identified by its sessionId. A session
// is bound to exactly one conversation for its whole lifetime.
type Conversation struct {
	ID          string         `json:"id"`
	WidgetID    string         `json:"widgetId"`
	TenantID    string         `json:"tenantId"`
	SessionID   string         `json:"sessionId"`
	VisitorInfo map[string]any `json:"visitorInfo"`
	IsActive    bool           `json:"isActive"`
	StartedAt   time.Time      `json:"startedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Message is one turn in a conversation. Rows are append-only.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Content        string    `json:"content"`
	Role           string    `json:"role"`
	MessageType    string    `json:"messageType"`
	AIModel        string    `json:"aiModel,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
