// Package observability provides a metrics extension for Launchpad that records
// lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/launchpad/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnIssuanceCreated  = (*MetricsExtension)(nil)
	_ plugin.OnTokensPurchased  = (*MetricsExtension)(nil)
	_ plugin.OnTokensSold       = (*MetricsExtension)(nil)
	_ plugin.OnTradeRejected    = (*MetricsExtension)(nil)
	_ plugin.OnReserveWithdrawn = (*MetricsExtension)(nil)
	_ plugin.OnJournalFlushed   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Launchpad plugin to automatically track trading metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Issuance metrics
	IssuanceCreated Counter

	// Trading metrics
	TokensPurchased Counter
	TokensSold      Counter
	TradesRejected  Counter

	// Reserve metrics
	ReserveWithdrawn Counter

	// Journal metrics
	JournalBatchSize    Histogram
	JournalFlushLatency Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Issuance metrics
		IssuanceCreated: factory.Counter("launchpad.issuance.created"),

		// Trading metrics
		TokensPurchased: factory.Counter("launchpad.trade.purchases"),
		TokensSold:      factory.Counter("launchpad.trade.sales"),
		TradesRejected:  factory.Counter("launchpad.trade.rejected"),

		// Reserve metrics
		ReserveWithdrawn: factory.Counter("launchpad.reserve.withdrawn"),

		// Journal metrics
		JournalBatchSize:    factory.Histogram("launchpad.journal.batch.size"),
		JournalFlushLatency: factory.Histogram("launchpad.journal.flush.latency_ms"),

		// Error metrics
		StoreErrors:  factory.Counter("launchpad.store.errors"),
		PluginErrors: factory.Counter("launchpad.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Issuance lifecycle hooks
// ──────────────────────────────────────────────────

// OnIssuanceCreated implements plugin.OnIssuanceCreated.
func (m *MetricsExtension) OnIssuanceCreated(_ context.Context, _ interface{}) error {
	m.IssuanceCreated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Trading hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased implements plugin.OnTokensPurchased.
func (m *MetricsExtension) OnTokensPurchased(_ context.Context, _ interface{}) error {
	m.TokensPurchased.Inc()
	return nil
}

// OnTokensSold implements plugin.OnTokensSold.
func (m *MetricsExtension) OnTokensSold(_ context.Context, _ interface{}) error {
	m.TokensSold.Inc()
	return nil
}

// OnTradeRejected implements plugin.OnTradeRejected.
func (m *MetricsExtension) OnTradeRejected(_ context.Context, _, _ string, _ string, _ error) error {
	m.TradesRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Reserve hooks
// ──────────────────────────────────────────────────

// OnReserveWithdrawn implements plugin.OnReserveWithdrawn.
func (m *MetricsExtension) OnReserveWithdrawn(_ context.Context, _ interface{}) error {
	m.ReserveWithdrawn.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnJournalFlushed implements plugin.OnJournalFlushed.
func (m *MetricsExtension) OnJournalFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.JournalBatchSize.Observe(float64(count))
	m.JournalFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
