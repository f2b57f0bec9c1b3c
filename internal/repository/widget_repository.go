package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ttchat/internal/entities"
)

type WidgetRepository struct {
	db *pgxpool.Pool
}

func NewWidgetRepository(db *pgxpool.Pool) *WidgetRepository {
	return &WidgetRepository{db: db}
}

func (r *WidgetRepository) Create(ctx context.Context, widget *entities.Widget) error {
	if widget.ID == "" {
		widget.ID = uuid.NewString()
	}
	cfg, err := json.Marshal(widget.Config)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO widgets (id, tenant_id, name, description, config, webhook_url, api_key, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, widget.ID, widget.TenantID, widget.Name, widget.Description, cfg,
		widget.WebhookURL, widget.APIKey, widget.IsActive,
	).Scan(&widget.CreatedAt, &widget.UpdatedAt)
}

const widgetColumns = `id, tenant_id, name, description, config, webhook_url, api_key,
	is_active, total_messages, total_conversations, created_at, updated_at`

func (r *WidgetRepository) GetByID(ctx context.Context, id string) (*entities.Widget, error) {
	row := r.db.QueryRow(ctx, `SELECT `+widgetColumns+` FROM widgets WHERE id = $1`, id)
	return scanWidget(row)
}

func (r *WidgetRepository) GetOwned(ctx context.Context, tenantID, id string) (*entities.Widget, error) {
	row := r.db.QueryRow(ctx, `SELECT `+widgetColumns+` FROM widgets WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return scanWidget(row)
}

func (r *WidgetRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.Widget, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+widgetColumns+` FROM widgets WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	widgets := []entities.Widget{}
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, *w)
	}
	return widgets, rows.Err()
}

func (r *WidgetRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM widgets WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

func (r *WidgetRepository) Update(ctx context.Context, widget *entities.Widget) error {
	cfg, err := json.Marshal(widget.Config)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE widgets SET name = $3, description = $4, config = $5, webhook_url = $6,
			api_key = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`, widget.ID, widget.TenantID, widget.Name, widget.Description, cfg,
		widget.WebhookURL, widget.APIKey, widget.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *WidgetRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM widgets WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *WidgetRepository) RecordActivity(ctx context.Context, id string, messages int, newConversation bool) error {
	conversations := 0
	if newConversation {
		conversations = 1
	}
	_, err := r.db.Exec(ctx, `
		UPDATE widgets SET total_messages = total_messages + $2,
			total_conversations = total_conversations + $3, updated_at = NOW()
		WHERE id = $1
	`, id, messages, conversations)
	return err
}

func scanWidget(row pgx.Row) (*entities.Widget, error) {
	var w entities.Widget
	var cfg []byte
	err := row.Scan(&w.ID, &w.TenantID, &w.Name, &w.Description, &cfg, &w.WebhookURL,
		&w.APIKey, &w.IsActive, &w.TotalMessages, &w.TotalConversations, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cfg, &w.Config); err != nil {
		return nil, err
	}
	return &w, nil
}
