// Package extension provides the Forge extension adapter for Launchpad.
//
// It implements the forge.Extension interface to integrate Launchpad
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.launchpad" or "launchpad" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	launchpad "github.com/xraph/launchpad"
	"github.com/xraph/launchpad/bank"
	bankmemory "github.com/xraph/launchpad/bank/memory"
	"github.com/xraph/launchpad/curve"
	"github.com/xraph/launchpad/store"
	"github.com/xraph/launchpad/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "launchpad"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Bonding-curve token issuance and redemption engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Launchpad as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config        Config
	engine        *launchpad.Launchpad
	store         store.Store
	bank          bank.Bank
	launchpadOpts []launchpad.Option
	useGrove      bool
}

// New creates a new Launchpad Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Launchpad instance.
// This is nil until Register is called.
func (e *Extension) Engine() *launchpad.Launchpad { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the launchpad engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory backends if none were provided programmatically.
	if e.store == nil {
		if e.useGrove {
			return errors.New("launchpad: grove database configured but store construction " +
				"is explicit; pass store/postgres, store/sqlite, or store/mongo via WithStore")
		}
		e.store = memory.New()
	}
	if e.bank == nil {
		e.bank = bankmemory.New()
	}

	// Build launchpad options from resolved config.
	opts := e.buildLaunchpadOpts()

	eng := launchpad.New(e.store, e.bank, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*launchpad.Launchpad, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("launchpad: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("launchpad: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLaunchpadOpts constructs launchpad.Option values from the resolved config.
func (e *Extension) buildLaunchpadOpts() []launchpad.Option {
	opts := make([]launchpad.Option, 0, len(e.launchpadOpts)+2)

	// Apply config-derived options.
	if e.config.JournalBatchSize > 0 || e.config.JournalFlushInterval > 0 {
		batchSize := e.config.JournalBatchSize
		flushInterval := e.config.JournalFlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.JournalBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.JournalFlushInterval
		}
		opts = append(opts, launchpad.WithJournalConfig(batchSize, flushInterval))
	}

	if e.config.BasePrice > 0 {
		params := curve.DefaultParams()
		params.BasePrice = e.config.BasePrice
		opts = append(opts, launchpad.WithCurve(params))
	}

	// Append any pass-through launchpad options.
	opts = append(opts, e.launchpadOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("launchpad: configuration is required but not found in config files; " +
				"ensure 'extensions.launchpad' or 'launchpad' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("launchpad: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("journal_batch_size", e.config.JournalBatchSize),
		forge.F("journal_flush_interval", e.config.JournalFlushInterval),
		forge.F("base_price", e.config.BasePrice),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.launchpad" first (namespaced pattern).
	if cm.IsSet("extensions.launchpad") {
		if err := cm.Bind("extensions.launchpad", &cfg); err == nil {
			e.Logger().Debug("launchpad: loaded config from file",
				forge.F("key", "extensions.launchpad"),
			)
			return cfg, true
		}
		e.Logger().Warn("launchpad: failed to bind extensions.launchpad config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "launchpad" key.
	if cm.IsSet("launchpad") {
		if err := cm.Bind("launchpad", &cfg); err == nil {
			e.Logger().Debug("launchpad: loaded config from file",
				forge.F("key", "launchpad"),
			)
			return cfg, true
		}
		e.Logger().Warn("launchpad: failed to bind launchpad config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.JournalBatchSize == 0 {
		cfg.JournalBatchSize = defaults.JournalBatchSize
	}
	if cfg.JournalFlushInterval == 0 {
		cfg.JournalFlushInterval = defaults.JournalFlushInterval
	}
	if cfg.BasePrice == 0 {
		cfg.BasePrice = defaults.BasePrice
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.JournalBatchSize == 0 && programmaticConfig.JournalBatchSize != 0 {
		yamlConfig.JournalBatchSize = programmaticConfig.JournalBatchSize
	}
	if yamlConfig.JournalFlushInterval == 0 && programmaticConfig.JournalFlushInterval != 0 {
		yamlConfig.JournalFlushInterval = programmaticConfig.JournalFlushInterval
	}
	if yamlConfig.BasePrice == 0 && programmaticConfig.BasePrice != 0 {
		yamlConfig.BasePrice = programmaticConfig.BasePrice
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
