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

type IntegrationRepository struct {
	db *pgxpool.Pool
}

func NewIntegrationRepository(db *pgxpool.Pool) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// Upsert keeps at most one integration per (tenant, provider). A repeat
// connection replaces the token reference, external id, scopes and
// metadata in place.
func (r *IntegrationRepository) Upsert(ctx context.Context, integ *entities.Integration) error {
	if integ.ID == "" {
		integ.ID = uuid.NewString()
	}
	if integ.Metadata == nil {
		integ.Metadata = map[string]any{}
	}
	meta, err := json.Marshal(integ.Metadata)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO integrations (id, tenant_id, provider, external_id, token_ref, scopes, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, provider) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			token_ref = EXCLUDED.token_ref,
			scopes = EXCLUDED.scopes,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, integ.ID, integ.TenantID, integ.Provider, integ.ExternalID, integ.TokenRef,
		integ.Scopes, meta,
	).Scan(&integ.ID, &integ.CreatedAt, &integ.UpdatedAt)
}

func (r *IntegrationRepository) GetByTokenRef(ctx context.Context, tokenRef string) (*entities.Integration, error) {
	var integ entities.Integration
	var meta []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, provider, external_id, token_ref, scopes, metadata, created_at, updated_at
		FROM integrations WHERE token_ref = $1
	`, tokenRef).Scan(&integ.ID, &integ.TenantID, &integ.Provider, &integ.ExternalID,
		&integ.TokenRef, &integ.Scopes, &meta, &integ.CreatedAt, &integ.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(meta, &integ.Metadata); err != nil {
		return nil, err
	}
	return &integ, nil
}

func (r *IntegrationRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.Integration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, provider, external_id, token_ref, scopes, metadata, created_at, updated_at
		FROM integrations WHERE tenant_id = $1 ORDER BY provider
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	integrations := []entities.Integration{}
	for rows.Next() {
		var integ entities.Integration
		var meta []byte
		if err := rows.Scan(&integ.ID, &integ.TenantID, &integ.Provider, &integ.ExternalID,
			&integ.TokenRef, &integ.Scopes, &meta, &integ.CreatedAt, &integ.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &integ.Metadata); err != nil {
			return nil, err
		}
		integrations = append(integrations, integ)
	}
	return integrations, rows.Err()
}

func (r *IntegrationRepository) UpdateMetadata(ctx context.Context, tenantID, provider string, metadata map[string]any) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE integrations SET metadata = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND provider = $2
	`, tenantID, provider, meta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, tenantID, provider string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM integrations WHERE tenant_id = $1 AND provider = $2
	`, tenantID, provider)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}
