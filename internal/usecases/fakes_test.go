package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ttchat/internal/entities"
	"ttchat/internal/interfaces"
)

// In-memory stores mirroring the relational constraints the pgx
// repositories rely on (unique email, unique session id, one
// integration per tenant+provider).

var (
	_ interfaces.TenantStore       = (*fakeTenantStore)(nil)
	_ interfaces.WidgetStore       = (*fakeWidgetStore)(nil)
	_ interfaces.ConversationStore = (*fakeConversationStore)(nil)
	_ interfaces.IntegrationStore  = (*fakeIntegrationStore)(nil)
	_ interfaces.BotConfigStore    = (*fakeBotConfigStore)(nil)
	_ interfaces.TokenBroker       = (*fakeBroker)(nil)
	_ interfaces.WebhookSender     = (*fakeWebhook)(nil)
	_ interfaces.Responder         = (*fakeResponder)(nil)
)

type fakeTenantStore struct {
	mu      sync.Mutex
	tenants map[string]*entities.Tenant
}

func newFakeTenantStore() *fakeTenantStore {
	return &fakeTenantStore{tenants: map[string]*entities.Tenant{}}
}

func (s *fakeTenantStore) Create(_ context.Context, tenant *entities.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Email == tenant.Email {
			return entities.ErrEmailTaken
		}
	}
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	if tenant.SubscriptionPlan == "" {
		tenant.SubscriptionPlan = entities.PlanTrial
	}
	if tenant.SubscriptionStatus == "" {
		tenant.SubscriptionStatus = entities.SubscriptionTrial
	}
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	copied := *tenant
	s.tenants[tenant.ID] = &copied
	return nil
}

func (s *fakeTenantStore) GetByID(_ context.Context, id string) (*entities.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeTenantStore) GetByEmail(_ context.Context, email string) (*entities.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Email == email {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeTenantStore) UpdateProfile(_ context.Context, id, name, avatar string) (*entities.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, nil
	}
	if name != "" {
		t.Name = name
	}
	if avatar != "" {
		t.Avatar = avatar
	}
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

type fakeWidgetStore struct {
	mu      sync.Mutex
	widgets map[string]*entities.Widget
}

func newFakeWidgetStore() *fakeWidgetStore {
	return &fakeWidgetStore{widgets: map[string]*entities.Widget{}}
}

func (s *fakeWidgetStore) Create(_ context.Context, widget *entities.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if widget.ID == "" {
		widget.ID = uuid.NewString()
	}
	widget.CreatedAt = time.Now()
	widget.UpdatedAt = widget.CreatedAt
	copied := *widget
	s.widgets[widget.ID] = &copied
	return nil
}

func (s *fakeWidgetStore) GetByID(_ context.Context, id string) (*entities.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.widgets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeWidgetStore) GetOwned(_ context.Context, tenantID, id string) (*entities.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.widgets[id]; ok && w.TenantID == tenantID {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeWidgetStore) ListByTenant(_ context.Context, tenantID string) ([]entities.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entities.Widget{}
	for _, w := range s.widgets {
		if w.TenantID == tenantID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeWidgetStore) CountByTenant(_ context.Context, tenantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, w := range s.widgets {
		if w.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (s *fakeWidgetStore) Update(_ context.Context, widget *entities.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.widgets[widget.ID]
	if !ok || existing.TenantID != widget.TenantID {
		return entities.ErrNotFound
	}
	copied := *widget
	copied.UpdatedAt = time.Now()
	s.widgets[widget.ID] = &copied
	return nil
}

func (s *fakeWidgetStore) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.widgets[id]; ok && w.TenantID == tenantID {
		delete(s.widgets, id)
		return nil
	}
	return entities.ErrNotFound
}

func (s *fakeWidgetStore) RecordActivity(_ context.Context, id string, messages int, newConversation bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.widgets[id]
	if !ok {
		return entities.ErrNotFound
	}
	w.TotalMessages += int64(messages)
	if newConversation {
		w.TotalConversations++
	}
	return nil
}

type fakeConversationStore struct {
	mu            sync.Mutex
	bySession     map[string]*entities.Conversation
	messages      []entities.Message
	appendFailure error
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{bySession: map[string]*entities.Conversation{}}
}

func (s *fakeConversationStore) FindOrCreate(_ context.Context, widgetID, tenantID, sessionID string) (*entities.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.bySession[sessionID]; ok {
		copied := *conv
		return &copied, false, nil
	}
	conv := &entities.Conversation{
		ID:          uuid.NewString(),
		WidgetID:    widgetID,
		TenantID:    tenantID,
		SessionID:   sessionID,
		VisitorInfo: map[string]any{},
		IsActive:    true,
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.bySession[sessionID] = conv
	copied := *conv
	return &copied, true, nil
}

func (s *fakeConversationStore) AppendMessage(_ context.Context, msg *entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendFailure != nil {
		return s.appendFailure
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeConversationStore) messagesFor(conversationID string) []entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entities.Message{}
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

type fakeIntegrationStore struct {
	mu           sync.Mutex
	integrations map[string]*entities.Integration // key tenantID|provider
}

func newFakeIntegrationStore() *fakeIntegrationStore {
	return &fakeIntegrationStore{integrations: map[string]*entities.Integration{}}
}

func integrationKey(tenantID, provider string) string {
	return tenantID + "|" + provider
}

func (s *fakeIntegrationStore) Upsert(_ context.Context, integ *entities.Integration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := integrationKey(integ.TenantID, integ.Provider)
	if existing, ok := s.integrations[key]; ok {
		existing.ExternalID = integ.ExternalID
		existing.TokenRef = integ.TokenRef
		existing.Scopes = integ.Scopes
		existing.Metadata = integ.Metadata
		existing.UpdatedAt = time.Now()
		*integ = *existing
		return nil
	}
	if integ.ID == "" {
		integ.ID = uuid.NewString()
	}
	if integ.Metadata == nil {
		integ.Metadata = map[string]any{}
	}
	integ.CreatedAt = time.Now()
	integ.UpdatedAt = integ.CreatedAt
	copied := *integ
	s.integrations[key] = &copied
	return nil
}

func (s *fakeIntegrationStore) GetByTokenRef(_ context.Context, tokenRef string) (*entities.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, integ := range s.integrations {
		if integ.TokenRef == tokenRef {
			copied := *integ
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeIntegrationStore) ListByTenant(_ context.Context, tenantID string) ([]entities.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entities.Integration{}
	for _, integ := range s.integrations {
		if integ.TenantID == tenantID {
			out = append(out, *integ)
		}
	}
	return out, nil
}

func (s *fakeIntegrationStore) UpdateMetadata(_ context.Context, tenantID, provider string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	integ, ok := s.integrations[integrationKey(tenantID, provider)]
	if !ok {
		return entities.ErrNotFound
	}
	integ.Metadata = metadata
	integ.UpdatedAt = time.Now()
	return nil
}

func (s *fakeIntegrationStore) Delete(_ context.Context, tenantID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := integrationKey(tenantID, provider)
	if _, ok := s.integrations[key]; !ok {
		return entities.ErrNotFound
	}
	delete(s.integrations, key)
	return nil
}

func (s *fakeIntegrationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.integrations)
}

type fakeBotConfigStore struct {
	mu      sync.Mutex
	configs map[string]*entities.BotConfig
}

func newFakeBotConfigStore() *fakeBotConfigStore {
	return &fakeBotConfigStore{configs: map[string]*entities.BotConfig{}}
}

func (s *fakeBotConfigStore) Upsert(_ context.Context, cfg *entities.BotConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Chicago"
	}
	cfg.UpdatedAt = time.Now()
	copied := *cfg
	s.configs[cfg.TenantID] = &copied
	return nil
}

func (s *fakeBotConfigStore) GetByTenant(_ context.Context, tenantID string) (*entities.BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[tenantID]; ok {
		copied := *cfg
		return &copied, nil
	}
	return nil, nil
}

type fakeBroker struct {
	mu         sync.Mutex
	grants     map[string]*interfaces.TokenGrant // keyed by code
	mintErr    error
	mintedRefs []string
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{grants: map[string]*interfaces.TokenGrant{}}
}

func (b *fakeBroker) AuthorizeURL(provider string, scopes []string, state, redirectURI string) string {
	return fmt.Sprintf("https://broker.test/oauth/authorize?provider=%s&state=%s", provider, state)
}

func (b *fakeBroker) ExchangeCode(_ context.Context, provider, code string) (*interfaces.TokenGrant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if grant, ok := b.grants[code]; ok {
		return grant, nil
	}
	return nil, errors.New("broker: unknown code")
}

func (b *fakeBroker) MintAccessToken(_ context.Context, tokenRef string) (*interfaces.AccessToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mintErr != nil {
		return nil, b.mintErr
	}
	b.mintedRefs = append(b.mintedRefs, tokenRef)
	return &interfaces.AccessToken{
		Token:     "fresh-" + tokenRef,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type fakeWebhook struct {
	mu       sync.Mutex
	err      error
	payloads []any
}

func (w *fakeWebhook) Send(_ context.Context, tenantID string, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.payloads = append(w.payloads, payload)
	return nil
}

func (w *fakeWebhook) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.payloads)
}

type fakeResponder struct {
	reply string
	err   error
}

func (r *fakeResponder) GenerateResponse(_ context.Context, _ string, _ map[string]any) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}
