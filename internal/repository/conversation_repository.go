package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ttchat/internal/entities"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindOrCreate binds a session to a conversation. The unique index on
// session_id is the safety net for concurrent first messages: when the
// insert loses the race (ON CONFLICT DO NOTHING inserts no row) the
// existing conversation is read back and created is false.
func (r *ConversationRepository) FindOrCreate(ctx context.Context, widgetID, tenantID, sessionID string) (*entities.Conversation, bool, error) {
	id := uuid.NewString()

	var conv entities.Conversation
	var visitor []byte
	err := r.db.QueryRow(ctx, `
		INSERT INTO conversations (id, widget_id, tenant_id, session_id, visitor_info)
		VALUES ($1, $2, $3, $4, '{}')
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id, widget_id, tenant_id, session_id, visitor_info, is_active, started_at, updated_at
	`, id, widgetID, tenantID, sessionID).Scan(&conv.ID, &conv.WidgetID, &conv.TenantID,
		&conv.SessionID, &visitor, &conv.IsActive, &conv.StartedAt, &conv.UpdatedAt)

	if err == nil {
		if err := json.Unmarshal(visitor, &conv.VisitorInfo); err != nil {
			return nil, false, err
		}
		return &conv, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.getBySession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("conversation for session %q vanished after conflict", sessionID)
	}
	return existing, false, nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *entities.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.MessageType == "" {
		msg.MessageType = entities.MessageTypeText
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, content, role, message_type, ai_model)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, msg.ID, msg.ConversationID, msg.Content, msg.Role, msg.MessageType, msg.AIModel,
	).Scan(&msg.CreatedAt)
}

func (r *ConversationRepository) getBySession(ctx context.Context, sessionID string) (*entities.Conversation, error) {
	var conv entities.Conversation
	var visitor []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, widget_id, tenant_id, session_id, visitor_info, is_active, started_at, updated_at
		FROM conversations WHERE session_id = $1
	`, sessionID).Scan(&conv.ID, &conv.WidgetID, &conv.TenantID, &conv.SessionID,
		&visitor, &conv.IsActive, &conv.StartedAt, &conv.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(visitor, &conv.VisitorInfo); err != nil {
		return nil, err
	}
	return &conv, nil
}
