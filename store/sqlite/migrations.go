package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the SQLite store.
var Migrations = migrate.NewGroup("entitle")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_entitle_subscriptions",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS entitle_subscriptions (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL DEFAULT '',
    plan                 TEXT NOT NULL DEFAULT '',
    status               TEXT NOT NULL DEFAULT 'active',
    billing_cycle        TEXT NOT NULL DEFAULT '',
    current_period_start TEXT NOT NULL DEFAULT (datetime('now')),
    current_period_end   TEXT NOT NULL DEFAULT (datetime('now')),
    cancel_at_period_end INTEGER NOT NULL DEFAULT 0,
    canceled_at          TEXT,
    provider_id          TEXT NOT NULL DEFAULT '',
    provider_name        TEXT NOT NULL DEFAULT '',
    metadata             TEXT NOT NULL DEFAULT '{}',
    created_at           TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at           TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_entitle_subs_user ON entitle_subscriptions (user_id);
CREATE INDEX IF NOT EXISTS idx_entitle_subs_status ON entitle_subscriptions (user_id, status, created_at);
CREATE INDEX IF NOT EXISTS idx_entitle_subs_provider ON entitle_subscriptions (provider_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS entitle_subscriptions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_entitle_audit_events",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS entitle_audit_events (
    id            TEXT PRIMARY KEY,
    action        TEXT NOT NULL DEFAULT '',
    resource_type TEXT NOT NULL DEFAULT '',
    resource_id   TEXT NOT NULL DEFAULT '',
    user_id       TEXT NOT NULL DEFAULT '',
    ip_address    TEXT NOT NULL DEFAULT '',
    user_agent    TEXT NOT NULL DEFAULT '',
    outcome       TEXT NOT NULL DEFAULT '',
    metadata      TEXT NOT NULL DEFAULT '{}',
    timestamp     TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_entitle_audit_user ON entitle_audit_events (user_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_entitle_audit_action ON entitle_audit_events (action, timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS entitle_audit_events`)
				return err
			},
		},
	)
}
