// Package audithook bridges Launchpad lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/launchpad/issuance"
	"github.com/xraph/launchpad/plugin"
	"github.com/xraph/launchpad/trade"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnIssuanceCreated  = (*Extension)(nil)
	_ plugin.OnTokensPurchased  = (*Extension)(nil)
	_ plugin.OnTokensSold       = (*Extension)(nil)
	_ plugin.OnTradeRejected    = (*Extension)(nil)
	_ plugin.OnReserveWithdrawn = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Launchpad lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Issuance lifecycle hooks
// ──────────────────────────────────────────────────

// OnIssuanceCreated implements plugin.OnIssuanceCreated.
func (e *Extension) OnIssuanceCreated(ctx context.Context, record interface{}) error {
	var resourceID string
	kv := []any{"event", "issuance_created"}
	if r, ok := record.(*issuance.Record); ok {
		resourceID = r.ID.String()
		kv = append(kv,
			"asset_id", r.AssetID,
			"controller", r.Controller,
			"max_supply", r.MaxSupply,
			"base_price", r.CurrentPrice,
		)
	}
	return e.record(ctx, ActionIssuanceCreated, SeverityInfo, OutcomeSuccess,
		ResourceIssuance, resourceID, CategoryIssuance, nil, kv...)
}

// ──────────────────────────────────────────────────
// Trading hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased implements plugin.OnTokensPurchased.
func (e *Extension) OnTokensPurchased(ctx context.Context, executed interface{}) error {
	var resourceID string
	kv := []any{"event", "tokens_purchased"}
	if t, ok := executed.(*trade.Trade); ok {
		resourceID = t.ID.String()
		kv = append(kv,
			"asset_id", t.AssetID,
			"counterparty", t.Counterparty,
			"currency_amount", t.CurrencyAmount,
			"token_units", t.TokenUnits,
			"price", t.Price,
		)
	}
	return e.record(ctx, ActionTokensPurchased, SeverityInfo, OutcomeSuccess,
		ResourceTrade, resourceID, CategoryTrading, nil, kv...)
}

// OnTokensSold implements plugin.OnTokensSold.
func (e *Extension) OnTokensSold(ctx context.Context, executed interface{}) error {
	var resourceID string
	kv := []any{"event", "tokens_sold"}
	if t, ok := executed.(*trade.Trade); ok {
		resourceID = t.ID.String()
		kv = append(kv,
			"asset_id", t.AssetID,
			"counterparty", t.Counterparty,
			"currency_amount", t.CurrencyAmount,
			"token_units", t.TokenUnits,
			"price", t.Price,
		)
	}
	return e.record(ctx, ActionTokensSold, SeverityInfo, OutcomeSuccess,
		ResourceTrade, resourceID, CategoryTrading, nil, kv...)
}

// OnTradeRejected implements plugin.OnTradeRejected.
func (e *Extension) OnTradeRejected(ctx context.Context, assetID, counterparty string, side string, reason error) error {
	return e.record(ctx, ActionTradeRejected, SeverityWarning, OutcomeFailure,
		ResourceTrade, assetID, CategoryTrading, reason,
		"asset_id", assetID,
		"counterparty", counterparty,
		"side", side,
	)
}

// ──────────────────────────────────────────────────
// Reserve hooks
// ──────────────────────────────────────────────────

// OnReserveWithdrawn implements plugin.OnReserveWithdrawn.
func (e *Extension) OnReserveWithdrawn(ctx context.Context, withdrawal interface{}) error {
	var resourceID string
	kv := []any{"event", "reserve_withdrawn"}
	if w, ok := withdrawal.(*trade.Withdrawal); ok {
		resourceID = w.ID.String()
		kv = append(kv,
			"asset_id", w.AssetID,
			"requester", w.Requester,
			"amount", w.Amount,
		)
	}
	return e.record(ctx, ActionReserveWithdrawn, SeverityWarning, OutcomeSuccess,
		ResourceWithdrawal, resourceID, CategoryTreasury, nil, kv...)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
