// Package launchpad provides a composable bonding-curve token issuance engine
// for Go applications.
//
// Launchpad is designed as a library, not a service. Import it directly into
// your Go application for maximum performance and flexibility. It provides:
//
//   - Linear bonding-curve pricing with integer-only arithmetic
//   - Atomic buy/sell execution with compensating rollback
//   - Controller-gated reserve withdrawals
//   - Batched trade journaling for audit and analytics
//   - Pluggable lifecycle hooks (audit trail, metrics)
//   - Storage backends for PostgreSQL, SQLite, MongoDB, and memory
//
// # Quick Start
//
// Create a launchpad instance with your preferred store and a bank:
//
//	import (
//	    "github.com/xraph/launchpad"
//	    bankmemory "github.com/xraph/launchpad/bank/memory"
//	    "github.com/xraph/launchpad/store/memory"
//	)
//
//	// Initialize backends
//	store := memory.New()
//	bank := bankmemory.New()
//
//	// Create launchpad
//	l := launchpad.New(store, bank)
//
//	// Start the engine (begins background workers)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// An issuance defines an asset sold along the curve:
//
//	rec, err := l.Initialize(ctx, launchpad.InitializeRequest{
//	    AssetID:      "asset_demo",
//	    Controller:   "alice",
//	    Symbol:       "DEMO",
//	    Decimals:     6,
//	    InitialPrice: 1_000_000,
//	    MaxSupply:    1_000_000_000_000,
//	})
//
// Buys convert currency into newly minted tokens at the current price:
//
//	t, err := l.Buy(ctx, "asset_demo", "bob", 5_000_000)
//
// Sells redeem whole tokens back against the reserve, less slippage:
//
//	t, err := l.Sell(ctx, "asset_demo", "bob", 3_000_000)
//
// The controller can withdraw collected reserve at any time:
//
//	w, err := l.Withdraw(ctx, "asset_demo", "alice", 2_000_000)
//
// # Pricing
//
// The price climbs linearly with the issued share of maximum supply: at zero
// supply a token costs the base price, at full supply it costs double. All
// arithmetic is unsigned 64-bit integer math with explicit overflow checks;
// any trade whose numbers would wrap is rejected before state changes.
//
// # Integration
//
// Launchpad integrates seamlessly with the Forgery ecosystem:
//
//   - Forge: application lifecycle via the extension package
//   - Grove: storage drivers and migrations
//   - Chronicle: audit trail via the audit_hook package
//   - go-utils: production metrics via the observability package
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	issu_01h2xcejqtf2nbrexx3vqjhp41   // Issuance ID
//	trade_01h2xcejqtf2nbrexx3vqjhp41  // Trade ID
//	wdrl_01h455vb4pex5vsknk084sn02q   // Withdrawal ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package launchpad
