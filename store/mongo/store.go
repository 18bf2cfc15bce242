package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	launchpad "github.com/xraph/launchpad"
	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	launchpadstore "github.com/xraph/launchpad/store"
	"github.com/xraph/launchpad/trade"
)

// Collection name constants.
const (
	colIssuances   = "launchpad_issuances"
	colTrades      = "launchpad_trades"
	colWithdrawals = "launchpad_withdrawals"
)

// compile-time interface check
var _ launchpadstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all launchpad collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("launchpad/mongo: migrate %s indexes: %w", col, err)
		}
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
	var existing issuanceModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"asset_id": r.AssetID}).
		Scan(ctx)
	if err == nil {
		return launchpad.ErrAlreadyInitialized
	}
	if !isNoDocuments(err) {
		return fmt.Errorf("launchpad/mongo: check existing issuance: %w", err)
	}

	m := toIssuanceModel(r)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("launchpad/mongo: create issuance: %w", err)
	}
	return nil
}

func (s *Store) GetIssuance(ctx context.Context, recordID id.IssuanceID) (*issuance.Record, error) {
	var m issuanceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": recordID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, launchpad.ErrIssuanceNotFound
		}
		return nil, fmt.Errorf("launchpad/mongo: get issuance: %w", err)
	}
	return fromIssuanceModel(&m)
}

func (s *Store) GetIssuanceByAsset(ctx context.Context, assetID string) (*issuance.Record, error) {
	var m issuanceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"asset_id": assetID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, launchpad.ErrIssuanceNotFound
		}
		return nil, fmt.Errorf("launchpad/mongo: get issuance by asset: %w", err)
	}
	return fromIssuanceModel(&m)
}

func (s *Store) ListIssuances(ctx context.Context, opts issuance.ListOpts) ([]*issuance.Record, error) {
	var models []issuanceModel

	filter := bson.M{}
	if opts.Controller != "" {
		filter["controller"] = opts.Controller
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("launchpad/mongo: list issuances: %w", err)
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

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("launchpad/mongo: update issuance: %w", err)
	}
	if res.MatchedCount() == 0 {
		return launchpad.ErrIssuanceNotFound
	}
	return nil
}

func (s *Store) DeleteIssuance(ctx context.Context, recordID id.IssuanceID) error {
	res, err := s.mdb.NewDelete((*issuanceModel)(nil)).
		Filter(bson.M{"_id": recordID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("launchpad/mongo: delete issuance: %w", err)
	}
	if res.DeletedCount() == 0 {
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
	if _, err := s.mdb.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("launchpad/mongo: record trades: %w", err)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Trade, error) {
	var models []tradeModel

	filter := bson.M{"asset_id": assetID}
	if opts.Side != "" {
		filter["side"] = string(opts.Side)
	}
	if opts.Counterparty != "" {
		filter["counterparty"] = opts.Counterparty
	}
	if !opts.Since.IsZero() {
		filter["executed_at"] = bson.M{"$gte": opts.Since}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "executed_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("launchpad/mongo: list trades: %w", err)
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
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"asset_id":    assetID,
				"executed_at": bson.M{"$gte": since},
			},
		},
		bson.M{
			"$group": bson.M{
				"_id":      "$side",
				"count":    bson.M{"$sum": 1},
				"currency": bson.M{"$sum": "$currency_amount"},
				"tokens":   bson.M{"$sum": "$token_units"},
			},
		},
	}

	cursor, err := s.mdb.Collection(colTrades).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("launchpad/mongo: aggregate volume: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Side     string `bson:"_id"`
		Count    int64  `bson:"count"`
		Currency int64  `bson:"currency"`
		Tokens   int64  `bson:"tokens"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("launchpad/mongo: aggregate volume decode: %w", err)
	}

	vol := &trade.Volume{AssetID: assetID}
	for _, r := range results {
		switch trade.Side(r.Side) {
		case trade.SideBuy:
			vol.Buys = r.Count
			vol.CurrencyBought = uint64(r.Currency)
			vol.TokensBought = uint64(r.Tokens)
		case trade.SideSell:
			vol.Sells = r.Count
			vol.CurrencySold = uint64(r.Currency)
			vol.TokensSold = uint64(r.Tokens)
		}
	}
	return vol, nil
}

func (s *Store) PurgeTrades(ctx context.Context, assetID string, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*tradeModel)(nil)).
		Filter(bson.M{
			"asset_id":    assetID,
			"executed_at": bson.M{"$lt": before},
		}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("launchpad/mongo: purge trades: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Withdrawal Journal ====================

func (s *Store) RecordWithdrawal(ctx context.Context, w *trade.Withdrawal) error {
	m := toWithdrawalModel(w)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("launchpad/mongo: record withdrawal: %w", err)
	}
	return nil
}

func (s *Store) ListWithdrawals(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Withdrawal, error) {
	var models []withdrawalModel

	filter := bson.M{"asset_id": assetID}
	if !opts.Since.IsZero() {
		filter["executed_at"] = bson.M{"$gte": opts.Since}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "executed_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("launchpad/mongo: list withdrawals: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all launchpad collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colIssuances: {
			{
				Keys:    bson.D{{Key: "asset_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "controller", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colTrades: {
			{Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "executed_at", Value: -1}}},
			{Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "counterparty", Value: 1}}},
		},
		colWithdrawals: {
			{Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "executed_at", Value: -1}}},
		},
	}
}
