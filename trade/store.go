package trade

import (
	"context"
	"time"
)

type Store interface {
	// RecordTrades persists a batch of journaled trades. Batches arrive from
	// the engine's flush worker and must be written atomically per call.
	RecordTrades(ctx context.Context, trades []*Trade) error
	ListTrades(ctx context.Context, assetID string, opts ListOpts) ([]*Trade, error)
	AggregateVolume(ctx context.Context, assetID string, since time.Time) (*Volume, error)
	PurgeTrades(ctx context.Context, assetID string, before time.Time) (int64, error)

	RecordWithdrawal(ctx context.Context, w *Withdrawal) error
	ListWithdrawals(ctx context.Context, assetID string, opts ListOpts) ([]*Withdrawal, error)
}

type ListOpts struct {
	Side         Side // empty matches both sides
	Counterparty string
	Since        time.Time
	Limit        int
	Offset       int
}
