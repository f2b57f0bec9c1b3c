package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ttchat/internal/entities"
)

type BotConfigRepository struct {
	db *pgxpool.Pool
}

func NewBotConfigRepository(db *pgxpool.Pool) *BotConfigRepository {
	return &BotConfigRepository{db: db}
}

// Upsert replaces the whole document for the tenant.
func (r *BotConfigRepository) Upsert(ctx context.Context, cfg *entities.BotConfig) error {
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Chicago"
	}

	services, err := json.Marshal(orEmptySlice(cfg.Services))
	if err != nil {
		return err
	}
	hours, err := json.Marshal(orEmptyHours(cfg.Hours))
	if err != nil {
		return err
	}
	faqs, err := json.Marshal(orEmptyFAQs(cfg.FAQs))
	if err != nil {
		return err
	}
	brand, err := json.Marshal(orEmptyMap(cfg.Brand))
	if err != nil {
		return err
	}
	flags, err := json.Marshal(orEmptyMap(cfg.Flags))
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO bot_configs (tenant_id, phone, timezone, address, services, hours, faqs, brand, flags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			timezone = EXCLUDED.timezone,
			address = EXCLUDED.address,
			services = EXCLUDED.services,
			hours = EXCLUDED.hours,
			faqs = EXCLUDED.faqs,
			brand = EXCLUDED.brand,
			flags = EXCLUDED.flags,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, cfg.TenantID, cfg.Phone, cfg.Timezone, cfg.Address, services, hours, faqs, brand, flags,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
}

func (r *BotConfigRepository) GetByTenant(ctx context.Context, tenantID string) (*entities.BotConfig, error) {
	var cfg entities.BotConfig
	var services, hours, faqs, brand, flags []byte
	err := r.db.QueryRow(ctx, `
		SELECT tenant_id, phone, timezone, address, services, hours, faqs, brand, flags, created_at, updated_at
		FROM bot_configs WHERE tenant_id = $1
	`, tenantID).Scan(&cfg.TenantID, &cfg.Phone, &cfg.Timezone, &cfg.Address,
		&services, &hours, &faqs, &brand, &flags, &cfg.CreatedAt, &cfg.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw []byte
		out any
	}{
		{services, &cfg.Services},
		{hours, &cfg.Hours},
		{faqs, &cfg.FAQs},
		{brand, &cfg.Brand},
		{flags, &cfg.Flags},
	} {
		if err := json.Unmarshal(pair.raw, pair.out); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func orEmptySlice(s []entities.Service) []entities.Service {
	if s == nil {
		return []entities.Service{}
	}
	return s
}

func orEmptyHours(h map[string][][]string) map[string][][]string {
	if h == nil {
		return map[string][][]string{}
	}
	return h
}

func orEmptyFAQs(f []entities.FAQ) []entities.FAQ {
	if f == nil {
		return []entities.FAQ{}
	}
	return f
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
