package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	launchpad "github.com/xraph/launchpad"
	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	launchpadstore "github.com/xraph/launchpad/store"
	"github.com/xraph/launchpad/trade"
)

// compile-time interface check
var _ launchpadstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("launchpad/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("launchpad/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Issuance Store ====================

func (s *Store) CreateIssuance(ctx context.Context, r *issuance.Record) error {
	existing := new(issuanceModel)
	err := s.sdb.NewSelect(existing).
		Where("asset_id = ?", r.AssetID).
		Scan(ctx)
	if err == nil {
		return launchpad.ErrAlreadyInitialized
	}
	if !isNoRows(err) {
		return err
	}

	m := toIssuanceModel(r)
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetIssuance(ctx context.Context, recordID id.IssuanceID) (*issuance.Record, error) {
	m := new(issuanceModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", recordID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, launchpad.ErrIssuanceNotFound
		}
		return nil, err
	}
	return fromIssuanceModel(m)
}

func (s *Store) GetIssuanceByAsset(ctx context.Context, assetID string) (*issuance.Record, error) {
	m := new(issuanceModel)
	err := s.sdb.NewSelect(m).
		Where("asset_id = ?", assetID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, launchpad.ErrIssuanceNotFound
		}
		return nil, err
	}
	return fromIssuanceModel(m)
}

func (s *Store) ListIssuances(ctx context.Context, opts issuance.ListOpts) ([]*issuance.Record, error) {
	var models []issuanceModel
	q := s.sdb.NewSelect(&models)

	if opts.Controller != "" {
		q = q.Where("controller = ?", opts.Controller)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*issuance.Record, len(models))
	for i := range models {
		r, err := fromIssuanceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateIssuance(ctx context.Context, r *issuance.Record) error {
	m := toIssuanceModel(r)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return launchpad.ErrIssuanceNotFound
	}
	return nil
}

func (s *Store) DeleteIssuance(ctx context.Context, recordID id.IssuanceID) error {
	res, err := s.sdb.NewDelete((*issuanceModel)(nil)).
		Where("id = ?", recordID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return launchpad.ErrIssuanceNotFound
	}
	return nil
}

// ==================== Trade Journal ====================

func (s *Store) RecordTrades(ctx context.Context, trades []*trade.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	models := make([]tradeModel, len(trades))
	for i, t := range trades {
		models[i] = *toTradeModel(t)
	}
	_, err := s.sdb.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) ListTrades(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Trade, error) {
	var models []tradeModel
	q := s.sdb.NewSelect(&models).Where("asset_id = ?", assetID)

	if opts.Side != "" {
		q = q.Where("side = ?", string(opts.Side))
	}
	if opts.Counterparty != "" {
		q = q.Where("counterparty = ?", opts.Counterparty)
	}
	if !opts.Since.IsZero() {
		q = q.Where("executed_at >= ?", opts.Since)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("executed_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*trade.Trade, len(models))
	for i := range models {
		t, err := fromTradeModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) AggregateVolume(ctx context.Context, assetID string, since time.Time) (*trade.Volume, error) {
	vol := &trade.Volume{AssetID: assetID}

	var buys, sells int64
	var currencyBought, currencySold, tokensBought, tokensSold int64
	err := s.sdb.NewRaw(`
		SELECT
			COALESCE(SUM(CASE WHEN side = 'buy' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN side = 'sell' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN side = 'buy' THEN currency_amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN side = 'sell' THEN currency_amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN side = 'buy' THEN token_units ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN side = 'sell' THEN token_units ELSE 0 END), 0)
		FROM launchpad_trades
		WHERE asset_id = ? AND executed_at >= ?
	`, assetID, since).Scan(ctx, &buys, &sells, &currencyBought, &currencySold, &tokensBought, &tokensSold)
	if err != nil {
		return nil, err
	}

	vol.Buys = buys
	vol.Sells = sells
	vol.CurrencyBought = uint64(currencyBought)
	vol.CurrencySold = uint64(currencySold)
	vol.TokensBought = uint64(tokensBought)
	vol.TokensSold = uint64(tokensSold)
	return vol, nil
}

func (s *Store) PurgeTrades(ctx context.Context, assetID string, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*tradeModel)(nil)).
		Where("asset_id = ?", assetID).
		Where("executed_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// ==================== Withdrawal Journal ====================

func (s *Store) RecordWithdrawal(ctx context.Context, w *trade.Withdrawal) error {
	m := toWithdrawalModel(w)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ListWithdrawals(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Withdrawal, error) {
	var models []withdrawalModel
	q := s.sdb.NewSelect(&models).Where("asset_id = ?", assetID)

	if !opts.Since.IsZero() {
		q = q.Where("executed_at >= ?", opts.Since)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("executed_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*trade.Withdrawal, len(models))
	for i := range models {
		w, err := fromWithdrawalModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = w
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
