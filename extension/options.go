package extension

import (
	"time"

	launchpad "github.com/xraph/launchpad"
	"github.com/xraph/launchpad/bank"
	"github.com/xraph/launchpad/plugin"
	"github.com/xraph/launchpad/store"
)

// Option configures the Launchpad Forge extension.
type Option func(*Extension)

// WithStore sets the store for the launchpad engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithBank sets the bank used for currency and token movement.
func WithBank(b bank.Bank) Option {
	return func(e *Extension) {
		e.bank = b
	}
}

// WithLaunchpadOption passes a launchpad.Option through to the underlying engine.
func WithLaunchpadOption(opt launchpad.Option) Option {
	return func(e *Extension) {
		e.launchpadOpts = append(e.launchpadOpts, opt)
	}
}

// WithPlugin registers a launchpad plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.launchpadOpts = append(e.launchpadOpts, launchpad.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for launchpad routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithJournalBatchSize sets the number of trades to buffer before flushing.
func WithJournalBatchSize(size int) Option {
	return func(e *Extension) { e.config.JournalBatchSize = size }
}

// WithJournalFlushInterval sets how frequently the trade journal is flushed.
func WithJournalFlushInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.JournalFlushInterval = d }
}

// WithBasePrice sets the curve base price in the smallest currency unit.
func WithBasePrice(price uint64) Option {
	return func(e *Extension) { e.config.BasePrice = price }
}

// WithGroveDatabase sets the name of the grove.DB to resolve from the DI container.
// The extension will auto-construct the appropriate store backend (postgres/sqlite/mongo)
// based on the grove driver type. Pass an empty string to use the default (unnamed) grove.DB.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
