package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema statements are idempotent so startup can run them unconditionally.
// short_code keeps its unique index for the redirect-path lookup; clicks
// cascade with their link. short_codes retires every code ever issued so a
// deleted link's code cannot come back on a new link.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS links (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id),
		original_url  TEXT NOT NULL,
		short_code    TEXT NOT NULL UNIQUE,
		custom_domain TEXT,
		title         TEXT,
		category      TEXT,
		password      TEXT,
		is_published  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS clicks (
		id         BIGSERIAL PRIMARY KEY,
		link_id    BIGINT NOT NULL REFERENCES links(id) ON DELETE CASCADE,
		clicked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_agent TEXT,
		ip_address TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS short_codes (
		code TEXT PRIMARY KEY
	)`,
	`INSERT INTO short_codes (code) SELECT short_code FROM links ON CONFLICT DO NOTHING`,
	`CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_link_id ON clicks(link_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}
