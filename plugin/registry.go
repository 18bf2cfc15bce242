package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit             []OnInit
	onShutdown         []OnShutdown
	onIssuanceCreated  []OnIssuanceCreated
	onTokensPurchased  []OnTokensPurchased
	onTokensSold       []OnTokensSold
	onTradeRejected    []OnTradeRejected
	onReserveWithdrawn []OnReserveWithdrawn
	onJournalFlushed   []OnJournalFlushed
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnIssuanceCreated); ok {
		r.onIssuanceCreated = append(r.onIssuanceCreated, v)
	}
	if v, ok := p.(OnTokensPurchased); ok {
		r.onTokensPurchased = append(r.onTokensPurchased, v)
	}
	if v, ok := p.(OnTokensSold); ok {
		r.onTokensSold = append(r.onTokensSold, v)
	}
	if v, ok := p.(OnTradeRejected); ok {
		r.onTradeRejected = append(r.onTradeRejected, v)
	}
	if v, ok := p.(OnReserveWithdrawn); ok {
		r.onReserveWithdrawn = append(r.onReserveWithdrawn, v)
	}
	if v, ok := p.(OnJournalFlushed); ok {
		r.onJournalFlushed = append(r.onJournalFlushed, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnIssuanceCreated)(nil)).Elem(), "OnIssuanceCreated")
	checkInterface(reflect.TypeOf((*OnTokensPurchased)(nil)).Elem(), "OnTokensPurchased")
	checkInterface(reflect.TypeOf((*OnTokensSold)(nil)).Elem(), "OnTokensSold")
	checkInterface(reflect.TypeOf((*OnTradeRejected)(nil)).Elem(), "OnTradeRejected")
	checkInterface(reflect.TypeOf((*OnReserveWithdrawn)(nil)).Elem(), "OnReserveWithdrawn")
	checkInterface(reflect.TypeOf((*OnJournalFlushed)(nil)).Elem(), "OnJournalFlushed")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitIssuanceCreated emits an issuance created event.
func (r *Registry) EmitIssuanceCreated(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onIssuanceCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnIssuanceCreated(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnIssuanceCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTokensPurchased emits a tokens purchased event.
func (r *Registry) EmitTokensPurchased(ctx context.Context, t interface{}) {
	r.mu.RLock()
	plugins := r.onTokensPurchased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensPurchased(ctx, t)
		}); err != nil {
			r.logger.Warn("plugin OnTokensPurchased failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTokensSold emits a tokens sold event.
func (r *Registry) EmitTokensSold(ctx context.Context, t interface{}) {
	r.mu.RLock()
	plugins := r.onTokensSold
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensSold(ctx, t)
		}); err != nil {
			r.logger.Warn("plugin OnTokensSold failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTradeRejected emits a trade rejected event.
func (r *Registry) EmitTradeRejected(ctx context.Context, assetID, counterparty, side string, reason error) {
	r.mu.RLock()
	plugins := r.onTradeRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTradeRejected(ctx, assetID, counterparty, side, reason)
		}); err != nil {
			r.logger.Warn("plugin OnTradeRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitReserveWithdrawn emits a reserve withdrawn event.
func (r *Registry) EmitReserveWithdrawn(ctx context.Context, w interface{}) {
	r.mu.RLock()
	plugins := r.onReserveWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReserveWithdrawn(ctx, w)
		}); err != nil {
			r.logger.Warn("plugin OnReserveWithdrawn failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitJournalFlushed emits a journal flushed event.
func (r *Registry) EmitJournalFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onJournalFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnJournalFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnJournalFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the trading pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
