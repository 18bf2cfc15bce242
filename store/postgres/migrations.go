package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Launchpad store.
var Migrations = migrate.NewGroup("launchpad")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_launchpad_issuances",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS launchpad_issuances (
    id                TEXT PRIMARY KEY,
    asset_id          TEXT NOT NULL DEFAULT '',
    controller        TEXT NOT NULL DEFAULT '',
    name              TEXT NOT NULL DEFAULT '',
    symbol            TEXT NOT NULL DEFAULT '',
    decimals          INT NOT NULL DEFAULT 0,
    current_price     BIGINT NOT NULL DEFAULT 0,
    max_supply        BIGINT NOT NULL DEFAULT 0,
    total_issued      BIGINT NOT NULL DEFAULT 0,
    reserve_collected BIGINT NOT NULL DEFAULT 0,
    reserve_account   TEXT NOT NULL DEFAULT '',
    metadata          JSONB NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_launchpad_issuances_asset ON launchpad_issuances (asset_id);
CREATE INDEX IF NOT EXISTS idx_launchpad_issuances_controller ON launchpad_issuances (controller);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS launchpad_issuances`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_launchpad_trades",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS launchpad_trades (
    id              TEXT PRIMARY KEY,
    asset_id        TEXT NOT NULL DEFAULT '',
    side            TEXT NOT NULL DEFAULT '',
    counterparty    TEXT NOT NULL DEFAULT '',
    currency_amount BIGINT NOT NULL DEFAULT 0,
    token_units     BIGINT NOT NULL DEFAULT 0,
    price           BIGINT NOT NULL DEFAULT 0,
    executed_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_launchpad_trades_asset_time ON launchpad_trades (asset_id, executed_at);
CREATE INDEX IF NOT EXISTS idx_launchpad_trades_counterparty ON launchpad_trades (asset_id, counterparty);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS launchpad_trades`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_launchpad_withdrawals",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS launchpad_withdrawals (
    id          TEXT PRIMARY KEY,
    asset_id    TEXT NOT NULL DEFAULT '',
    requester   TEXT NOT NULL DEFAULT '',
    amount      BIGINT NOT NULL DEFAULT 0,
    executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_launchpad_withdrawals_asset_time ON launchpad_withdrawals (asset_id, executed_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS launchpad_withdrawals`)
				return err
			},
		},
	)
}
