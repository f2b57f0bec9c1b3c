package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ttchat/internal/entities"
)

type TenantRepository struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *entities.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	if tenant.Role == "" {
		tenant.Role = "OWNER"
	}
	if tenant.SubscriptionPlan == "" {
		tenant.SubscriptionPlan = entities.PlanTrial
	}
	if tenant.SubscriptionStatus == "" {
		tenant.SubscriptionStatus = entities.SubscriptionTrial
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO tenants (id, email, password_hash, name, avatar, role, subscription_plan, subscription_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, tenant.ID, tenant.Email, tenant.PasswordHash, tenant.Name, tenant.Avatar,
		tenant.Role, tenant.SubscriptionPlan, tenant.SubscriptionStatus,
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return entities.ErrEmailTaken
	}
	return err
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*entities.Tenant, error) {
	return r.get(ctx, "id", id)
}

func (r *TenantRepository) GetByEmail(ctx context.Context, email string) (*entities.Tenant, error) {
	return r.get(ctx, "email", email)
}

func (r *TenantRepository) get(ctx context.Context, column, value string) (*entities.Tenant, error) {
	var t entities.Tenant
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, name, avatar, role, subscription_plan, subscription_status, created_at, updated_at
		FROM tenants WHERE `+column+` = $1
	`, value).Scan(&t.ID, &t.Email, &t.PasswordHash, &t.Name, &t.Avatar, &t.Role,
		&t.SubscriptionPlan, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateProfile changes name and avatar; empty values keep the stored
// ones.
func (r *TenantRepository) UpdateProfile(ctx context.Context, id, name, avatar string) (*entities.Tenant, error) {
	var t entities.Tenant
	err := r.db.QueryRow(ctx, `
		UPDATE tenants SET
			name = CASE WHEN $2 = '' THEN name ELSE $2 END,
			avatar = CASE WHEN $3 = '' THEN avatar ELSE $3 END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, password_hash, name, avatar, role, subscription_plan, subscription_status, created_at, updated_at
	`, id, name, avatar).Scan(&t.ID, &t.Email, &t.PasswordHash, &t.Name, &t.Avatar, &t.Role,
		&t.SubscriptionPlan, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
