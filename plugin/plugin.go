// Package plugin provides an extensible plugin system for Launchpad.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Issuance lifecycle hooks
// ──────────────────────────────────────────────────

// OnIssuanceCreated is called when a new asset issuance is initialized.
type OnIssuanceCreated interface {
	Plugin
	OnIssuanceCreated(ctx context.Context, record interface{}) error
}

// ──────────────────────────────────────────────────
// Trading hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased is called after a buy commits.
type OnTokensPurchased interface {
	Plugin
	OnTokensPurchased(ctx context.Context, t interface{}) error
}

// OnTokensSold is called after a sell commits.
type OnTokensSold interface {
	Plugin
	OnTokensSold(ctx context.Context, t interface{}) error
}

// OnTradeRejected is called when a buy or sell is rejected before any state
// change: supply cap, zero quantity, overflow, insufficient reserve.
type OnTradeRejected interface {
	Plugin
	OnTradeRejected(ctx context.Context, assetID, counterparty string, side string, reason error) error
}

// ──────────────────────────────────────────────────
// Reserve hooks
// ──────────────────────────────────────────────────

// OnReserveWithdrawn is called after a controller withdrawal commits.
type OnReserveWithdrawn interface {
	Plugin
	OnReserveWithdrawn(ctx context.Context, w interface{}) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnJournalFlushed is called when a batch of trades is flushed to the store.
type OnJournalFlushed interface {
	Plugin
	OnJournalFlushed(ctx context.Context, count int, elapsed time.Duration) error
}
