package extension

import "time"

// Config holds the Launchpad extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.launchpad" or "launchpad" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for launchpad routes (default: "/launchpad").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// JournalBatchSize is the number of committed trades to buffer before
	// flushing to the store (default: 100).
	JournalBatchSize int `json:"journal_batch_size" mapstructure:"journal_batch_size" yaml:"journal_batch_size"`

	// JournalFlushInterval is how frequently the trade journal buffer is
	// flushed even if the batch size has not been reached (default: 5s).
	JournalFlushInterval time.Duration `json:"journal_flush_interval" mapstructure:"journal_flush_interval" yaml:"journal_flush_interval"`

	// BasePrice is the curve base price for newly quoted assets in the
	// smallest currency unit (default: 1_000_000).
	BasePrice uint64 `json:"base_price" mapstructure:"base_price" yaml:"base_price"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite/mongo).
	// When empty and WithGroveDatabase was called, the default (unnamed) DB is used.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		JournalBatchSize:     100,
		JournalFlushInterval: 5 * time.Second,
		BasePrice:            1_000_000,
	}
}
