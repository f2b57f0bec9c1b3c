package usecases

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

// ErrProcessingFailed hides persistence detail from widget visitors.
var ErrProcessingFailed = errors.New("failed to process message")

// ChatService runs the inbound widget message pipeline: resolve widget,
// bind the session to a conversation, log both turns, update counters.
type ChatService struct {
	widgets       interfaces.WidgetStore
	conversations interfaces.ConversationStore
	responder     interfaces.Responder
	logger        *zap.Logger
}

func NewChatService(widgets interfaces.WidgetStore, conversations interfaces.ConversationStore, responder interfaces.Responder, logger *zap.Logger) *ChatService {
	return &ChatService{
		widgets:       widgets,
		conversations: conversations,
		responder:     responder,
		logger:        logger,
	}
}

func (s *ChatService) HandleInboundMessage(ctx context.Context, widgetID, message, sessionID string) (string, error) {
	widget, err := s.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return "", s.failed("resolve widget", widgetID, sessionID, err)
	}
	if widget == nil || !widget.IsActive {
		return "", entities.ErrNotFound
	}

	conversation, created, err := s.conversations.FindOrCreate(ctx, widget.ID, widget.TenantID, sessionID)
	if err != nil {
		return "", s.failed("bind conversation", widgetID, sessionID, err)
	}

	if err := s.conversations.AppendMessage(ctx, &entities.Message{
		ConversationID: conversation.ID,
		Content:        message,
		Role:           entities.RoleUser,
		MessageType:    entities.MessageTypeText,
	}); err != nil {
		return "", s.failed("persist user message", widgetID, sessionID, err)
	}

	aiConfig, _ := widget.Config["ai"].(map[string]any)
	reply, err := s.responder.GenerateResponse(ctx, message, aiConfig)
	if err != nil {
		return "", s.failed("generate response", widgetID, sessionID, err)
	}

	if err := s.conversations.AppendMessage(ctx, &entities.Message{
		ConversationID: conversation.ID,
		Content:        reply,
		Role:           entities.RoleAssistant,
		MessageType:    entities.MessageTypeText,
		AIModel:        widget.AIModel(),
	}); err != nil {
		return "", s.failed("persist assistant message", widgetID, sessionID, err)
	}

	// Two turns were written; the conversation counter moves only when
	// this call created the session binding.
	if err := s.widgets.RecordActivity(ctx, widget.ID, 2, created); err != nil {
		return "", s.failed("update counters", widgetID, sessionID, err)
	}

	return reply, nil
}

func (s *ChatService) failed(step, widgetID, sessionID string, err error) error {
	s.logger.Error("chat pipeline failed",
		zap.String("step", step),
		zap.String("widget_id", widgetID),
		zap.String("session_id", sessionID),
		zap.Error(err))
	return fmt.Errorf("%w: %s", ErrProcessingFailed, step)
}
