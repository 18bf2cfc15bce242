package store

import (
	"context"
	"time"

	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	"github.com/xraph/launchpad/trade"
)

// Store is the unified storage interface for all Launchpad entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Issuance methods
	CreateIssuance(ctx context.Context, r *issuance.Record) error
	GetIssuance(ctx context.Context, recordID id.IssuanceID) (*issuance.Record, error)
	GetIssuanceByAsset(ctx context.Context, assetID string) (*issuance.Record, error)
	ListIssuances(ctx context.Context, opts issuance.ListOpts) ([]*issuance.Record, error)
	UpdateIssuance(ctx context.Context, r *issuance.Record) error
	DeleteIssuance(ctx context.Context, recordID id.IssuanceID) error

	// Trade journal methods
	RecordTrades(ctx context.Context, trades []*trade.Trade) error
	ListTrades(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Trade, error)
	AggregateVolume(ctx context.Context, assetID string, since time.Time) (*trade.Volume, error)
	PurgeTrades(ctx context.Context, assetID string, before time.Time) (int64, error)

	// Withdrawal methods
	RecordWithdrawal(ctx context.Context, w *trade.Withdrawal) error
	ListWithdrawals(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Withdrawal, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
