package launchpad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/launchpad/bank"
	"github.com/xraph/launchpad/curve"
	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	"github.com/xraph/launchpad/plugin"
	"github.com/xraph/launchpad/store"
	"github.com/xraph/launchpad/trade"
	"github.com/xraph/launchpad/types"
)

// Launchpad is the bonding-curve issuance engine. It owns the accounting
// state for every initialized asset and delegates value movement to the
// configured bank.
type Launchpad struct {
	store   store.Store
	bank    bank.Bank
	plugins *plugin.Registry
	logger  *slog.Logger
	curve   curve.Params

	// Per-asset serialization. Operations on the same asset run one at a
	// time; different assets proceed in parallel.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// Background trade journal
	journalBuffer chan *trade.Trade
	stopChan      chan struct{}
	wg            sync.WaitGroup

	// Configuration
	journalBatchSize     int
	journalFlushInterval time.Duration
}

// New creates a new Launchpad instance.
func New(s store.Store, b bank.Bank, opts ...Option) *Launchpad {
	l := &Launchpad{
		store:                s,
		bank:                 b,
		plugins:              plugin.NewRegistry(),
		logger:               slog.Default(),
		curve:                curve.DefaultParams(),
		locks:                make(map[string]*sync.Mutex),
		journalBuffer:        make(chan *trade.Trade, 10000),
		stopChan:             make(chan struct{}),
		journalBatchSize:     100,
		journalFlushInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Launchpad instance.
type Option func(*Launchpad)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launchpad) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Launchpad) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithCurve sets the pricing curve parameters.
func WithCurve(params curve.Params) Option {
	return func(l *Launchpad) {
		l.curve = params
	}
}

// WithJournalConfig configures trade journal batching.
func WithJournalConfig(batchSize int, flushInterval time.Duration) Option {
	return func(l *Launchpad) {
		l.journalBatchSize = batchSize
		l.journalFlushInterval = flushInterval
	}
}

// Start begins background workers.
func (l *Launchpad) Start(ctx context.Context) error {
	if err := l.curve.Validate(); err != nil {
		return err
	}

	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	// Start journal flush worker
	l.wg.Add(1)
	go l.journalFlushWorker(ctx)

	l.logger.Info("launchpad started",
		"base_price", l.curve.BasePrice,
		"batch_size", l.journalBatchSize,
		"flush_interval", l.journalFlushInterval,
	)

	return nil
}

// Stop shuts down the Launchpad.
func (l *Launchpad) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Issuance Initialization
// ──────────────────────────────────────────────────

// InitializeRequest describes a new asset issuance.
type InitializeRequest struct {
	AssetID      string
	Controller   string
	Name         string
	Symbol       string
	Decimals     uint8
	InitialPrice uint64
	MaxSupply    uint64
	Metadata     map[string]string
}

// Initialize creates the issuance record for a new asset. The asset starts
// with zero issued supply, an empty reserve, and the given initial price —
// the initial price is taken as configured, not derived from the curve.
func (l *Launchpad) Initialize(ctx context.Context, req InitializeRequest) (*issuance.Record, error) {
	if req.AssetID == "" {
		return nil, fmt.Errorf("%w: asset id is required", ErrInvalidInput)
	}
	if req.Controller == "" {
		return nil, fmt.Errorf("%w: controller is required", ErrInvalidInput)
	}
	if req.MaxSupply == 0 {
		return nil, fmt.Errorf("%w: max supply must be positive", ErrInvalidInput)
	}
	if req.InitialPrice == 0 {
		return nil, fmt.Errorf("%w: initial price must be positive", ErrInvalidInput)
	}

	unlock := l.lockAsset(req.AssetID)
	defer unlock()

	rec := &issuance.Record{
		Entity:         types.NewEntity(),
		ID:             id.NewIssuanceID(),
		AssetID:        req.AssetID,
		Controller:     req.Controller,
		Name:           req.Name,
		Symbol:         req.Symbol,
		Decimals:       req.Decimals,
		CurrentPrice:   req.InitialPrice,
		MaxSupply:      req.MaxSupply,
		ReserveAccount: bank.ReserveAccount(req.AssetID),
		Metadata:       req.Metadata,
	}

	if err := l.store.CreateIssuance(ctx, rec); err != nil {
		return nil, err
	}

	l.logger.Info("issuance initialized",
		"asset_id", rec.AssetID,
		"controller", rec.Controller,
		"initial_price", rec.CurrentPrice,
		"max_supply", rec.MaxSupply,
	)

	l.plugins.EmitIssuanceCreated(ctx, rec)
	return rec, nil
}

// ──────────────────────────────────────────────────
// Trading
// ──────────────────────────────────────────────────

// Buy purchases tokens with currency at the current price. The conversion is
// executed at the pre-trade price; the price is recomputed from the curve
// after the supply change. The operation either fully commits or leaves all
// state — record, reserve, buyer balances — untouched.
func (l *Launchpad) Buy(ctx context.Context, assetID, buyer string, currencyAmount uint64) (*trade.Trade, error) {
	if buyer == "" {
		return nil, fmt.Errorf("%w: buyer is required", ErrInvalidInput)
	}
	if currencyAmount == 0 {
		return nil, ErrZeroQuantity
	}

	unlock := l.lockAsset(assetID)
	defer unlock()

	rec, err := l.store.GetIssuanceByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	// Compute the entire post-trade state up front. No external effect
	// happens until every arithmetic step has succeeded.
	units, err := curve.TokensForPayment(currencyAmount, rec.CurrentPrice, rec.Decimals)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy, err)
	}

	newIssued, err := types.CheckedAdd(rec.TotalIssued, units)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy, ErrMathOverflow)
	}
	if newIssued > rec.MaxSupply {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy, ErrMaxSupplyExceeded)
	}

	newReserve, err := types.CheckedAdd(rec.ReserveCollected, currencyAmount)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy, ErrMathOverflow)
	}

	newPrice, err := l.curve.Price(newIssued, rec.MaxSupply)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy, err)
	}

	// External effects: collect payment, then mint. Each failure unwinds
	// everything done so far.
	if err := l.bank.Transfer(ctx, buyer, rec.ReserveAccount, currencyAmount); err != nil {
		return nil, l.rejectTrade(ctx, assetID, buyer, trade.SideBuy,
			fmt.Errorf("launchpad: collect payment: %w", err))
	}

	if err := l.bank.Mint(ctx, assetID, buyer, units); err != nil {
		l.compensate("refund payment", func() error {
			return l.bank.Transfer(ctx, rec.ReserveAccount, buyer, currencyAmount)
		})
		return nil, fmt.Errorf("launchpad: mint tokens: %w", err)
	}

	executedPrice := rec.CurrentPrice
	rec.TotalIssued = newIssued
	rec.ReserveCollected = newReserve
	rec.CurrentPrice = newPrice
	rec.Touch()

	if err := l.store.UpdateIssuance(ctx, rec); err != nil {
		l.compensate("burn minted tokens", func() error {
			return l.bank.Burn(ctx, assetID, buyer, units)
		})
		l.compensate("refund payment", func() error {
			return l.bank.Transfer(ctx, rec.ReserveAccount, buyer, currencyAmount)
		})
		return nil, fmt.Errorf("launchpad: persist issuance: %w", err)
	}

	t := &trade.Trade{
		Entity:         types.NewEntity(),
		ID:             id.NewTradeID(),
		AssetID:        assetID,
		Side:           trade.SideBuy,
		Counterparty:   buyer,
		CurrencyAmount: currencyAmount,
		TokenUnits:     units,
		Price:          executedPrice,
		ExecutedAt:     time.Now().UTC(),
	}
	l.journal(t)

	l.logger.Info("tokens purchased",
		"asset_id", assetID,
		"buyer", buyer,
		"currency_amount", currencyAmount,
		"token_units", units,
		"price", executedPrice,
		"new_price", newPrice,
	)

	l.plugins.EmitTokensPurchased(ctx, t)
	return t, nil
}

// Sell redeems tokens for currency at the current price, less slippage. The
// payout is checked against the reserve account's actual balance — after
// controller withdrawals the reserve may hold less than was collected, and a
// sell the reserve cannot cover fails with ErrInsufficientReserve.
func (l *Launchpad) Sell(ctx context.Context, assetID, seller string, tokenUnits uint64) (*trade.Trade, error) {
	if seller == "" {
		return nil, fmt.Errorf("%w: seller is required", ErrInvalidInput)
	}
	if tokenUnits == 0 {
		return nil, ErrZeroQuantity
	}

	unlock := l.lockAsset(assetID)
	defer unlock()

	rec, err := l.store.GetIssuanceByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if tokenUnits > rec.TotalIssued {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell,
			fmt.Errorf("%w: token units exceed issued supply", ErrInvalidInput))
	}

	payout, err := l.curve.PaymentForTokens(tokenUnits, rec.CurrentPrice, rec.Decimals)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell, err)
	}

	reserveBalance, err := l.bank.Balance(ctx, rec.ReserveAccount)
	if err != nil {
		return nil, fmt.Errorf("launchpad: reserve balance: %w", err)
	}
	if payout > reserveBalance {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell, ErrInsufficientReserve)
	}

	newIssued, err := types.CheckedSub(rec.TotalIssued, tokenUnits)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell, ErrMathOverflow)
	}

	newReserve, err := types.CheckedSub(rec.ReserveCollected, payout)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell, ErrMathOverflow)
	}

	newPrice, err := l.curve.Price(newIssued, rec.MaxSupply)
	if err != nil {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell, err)
	}

	// External effects: burn the surrendered tokens, then pay out.
	if err := l.bank.Burn(ctx, assetID, seller, tokenUnits); err != nil {
		return nil, l.rejectTrade(ctx, assetID, seller, trade.SideSell,
			fmt.Errorf("launchpad: burn tokens: %w", err))
	}

	if err := l.bank.Transfer(ctx, rec.ReserveAccount, seller, payout); err != nil {
		l.compensate("restore burned tokens", func() error {
			return l.bank.Mint(ctx, assetID, seller, tokenUnits)
		})
		return nil, fmt.Errorf("launchpad: pay out reserve: %w", err)
	}

	executedPrice := rec.CurrentPrice
	rec.TotalIssued = newIssued
	rec.ReserveCollected = newReserve
	rec.CurrentPrice = newPrice
	rec.Touch()

	if err := l.store.UpdateIssuance(ctx, rec); err != nil {
		l.compensate("claw back payout", func() error {
			return l.bank.Transfer(ctx, seller, rec.ReserveAccount, payout)
		})
		l.compensate("restore burned tokens", func() error {
			return l.bank.Mint(ctx, assetID, seller, tokenUnits)
		})
		return nil, fmt.Errorf("launchpad: persist issuance: %w", err)
	}

	t := &trade.Trade{
		Entity:         types.NewEntity(),
		ID:             id.NewTradeID(),
		AssetID:        assetID,
		Side:           trade.SideSell,
		Counterparty:   seller,
		CurrencyAmount: payout,
		TokenUnits:     tokenUnits,
		Price:          executedPrice,
		ExecutedAt:     time.Now().UTC(),
	}
	l.journal(t)

	l.logger.Info("tokens sold",
		"asset_id", assetID,
		"seller", seller,
		"token_units", tokenUnits,
		"payout", payout,
		"price", executedPrice,
		"new_price", newPrice,
	)

	l.plugins.EmitTokensSold(ctx, t)
	return t, nil
}

// ──────────────────────────────────────────────────
// Reserve Withdrawal
// ──────────────────────────────────────────────────

// Withdraw moves currency from the asset's reserve to its controller. Only
// the controller recorded at initialization may withdraw. Withdrawal does
// not change issued supply, price, or the collected total — the reserve can
// end up holding less than outstanding tokens would redeem for, in which
// case later sells fail with ErrInsufficientReserve.
func (l *Launchpad) Withdraw(ctx context.Context, assetID, requester string, amount uint64) (*trade.Withdrawal, error) {
	if requester == "" {
		return nil, fmt.Errorf("%w: requester is required", ErrInvalidInput)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	unlock := l.lockAsset(assetID)
	defer unlock()

	rec, err := l.store.GetIssuanceByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if requester != rec.Controller {
		return nil, ErrUnauthorized
	}

	reserveBalance, err := l.bank.Balance(ctx, rec.ReserveAccount)
	if err != nil {
		return nil, fmt.Errorf("launchpad: reserve balance: %w", err)
	}
	if amount > reserveBalance {
		return nil, ErrInsufficientReserve
	}

	if err := l.bank.Transfer(ctx, rec.ReserveAccount, requester, amount); err != nil {
		return nil, fmt.Errorf("launchpad: withdraw reserve: %w", err)
	}

	w := &trade.Withdrawal{
		Entity:     types.NewEntity(),
		ID:         id.NewWithdrawalID(),
		AssetID:    assetID,
		Requester:  requester,
		Amount:     amount,
		ExecutedAt: time.Now().UTC(),
	}

	if err := l.store.RecordWithdrawal(ctx, w); err != nil {
		// The transfer is the commit; the journal entry is audit.
		l.logger.Warn("failed to journal withdrawal",
			"asset_id", assetID,
			"amount", amount,
			"error", err,
		)
	}

	l.logger.Info("reserve withdrawn",
		"asset_id", assetID,
		"requester", requester,
		"amount", amount,
		"remaining_reserve", reserveBalance-amount,
	)

	l.plugins.EmitReserveWithdrawn(ctx, w)
	return w, nil
}

// ──────────────────────────────────────────────────
// Quotes
// ──────────────────────────────────────────────────

// Quote is a read-only conversion preview at the current price. Executing
// the trade later may yield a different result if the price moved.
type Quote struct {
	AssetID        string     `json:"asset_id"`
	Side           trade.Side `json:"side"`
	Price          uint64     `json:"price"`
	CurrencyAmount uint64     `json:"currency_amount"`
	TokenUnits     uint64     `json:"token_units"`
}

// QuoteBuy previews the token units a payment would purchase right now.
func (l *Launchpad) QuoteBuy(ctx context.Context, assetID string, currencyAmount uint64) (*Quote, error) {
	if currencyAmount == 0 {
		return nil, ErrZeroQuantity
	}

	rec, err := l.store.GetIssuanceByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	units, err := curve.TokensForPayment(currencyAmount, rec.CurrentPrice, rec.Decimals)
	if err != nil {
		return nil, err
	}

	return &Quote{
		AssetID:        assetID,
		Side:           trade.SideBuy,
		Price:          rec.CurrentPrice,
		CurrencyAmount: currencyAmount,
		TokenUnits:     units,
	}, nil
}

// QuoteSell previews the payout for surrendering token units right now.
func (l *Launchpad) QuoteSell(ctx context.Context, assetID string, tokenUnits uint64) (*Quote, error) {
	if tokenUnits == 0 {
		return nil, ErrZeroQuantity
	}

	rec, err := l.store.GetIssuanceByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	payout, err := l.curve.PaymentForTokens(tokenUnits, rec.CurrentPrice, rec.Decimals)
	if err != nil {
		return nil, err
	}

	return &Quote{
		AssetID:        assetID,
		Side:           trade.SideSell,
		Price:          rec.CurrentPrice,
		CurrencyAmount: payout,
		TokenUnits:     tokenUnits,
	}, nil
}

// ──────────────────────────────────────────────────
// Lookups
// ──────────────────────────────────────────────────

// GetIssuance retrieves an issuance record by ID.
func (l *Launchpad) GetIssuance(ctx context.Context, recordID id.IssuanceID) (*issuance.Record, error) {
	return l.store.GetIssuance(ctx, recordID)
}

// GetIssuanceByAsset retrieves the issuance record for an asset.
func (l *Launchpad) GetIssuanceByAsset(ctx context.Context, assetID string) (*issuance.Record, error) {
	return l.store.GetIssuanceByAsset(ctx, assetID)
}

// ListIssuances lists issuance records.
func (l *Launchpad) ListIssuances(ctx context.Context, opts issuance.ListOpts) ([]*issuance.Record, error) {
	return l.store.ListIssuances(ctx, opts)
}

// ListTrades lists journaled trades for an asset.
func (l *Launchpad) ListTrades(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Trade, error) {
	return l.store.ListTrades(ctx, assetID, opts)
}

// ListWithdrawals lists journaled withdrawals for an asset.
func (l *Launchpad) ListWithdrawals(ctx context.Context, assetID string, opts trade.ListOpts) ([]*trade.Withdrawal, error) {
	return l.store.ListWithdrawals(ctx, assetID, opts)
}

// TradingVolume aggregates journaled trade volume for an asset since a time.
func (l *Launchpad) TradingVolume(ctx context.Context, assetID string, since time.Time) (*trade.Volume, error) {
	return l.store.AggregateVolume(ctx, assetID, since)
}

// ──────────────────────────────────────────────────
// Trade Journal
// ──────────────────────────────────────────────────

// journal enqueues a committed trade for batched persistence. The accounting
// commit already happened; a full buffer drops the journal entry with a
// warning rather than failing the trade.
func (l *Launchpad) journal(t *trade.Trade) {
	select {
	case l.journalBuffer <- t:
	default:
		l.logger.Warn("trade journal buffer full, dropping entry",
			"asset_id", t.AssetID,
			"trade_id", t.ID.String(),
		)
	}
}

// journalFlushWorker flushes journaled trades to the store.
func (l *Launchpad) journalFlushWorker(ctx context.Context) {
	defer l.wg.Done()

	batch := make([]*trade.Trade, 0, l.journalBatchSize)
	ticker := time.NewTicker(l.journalFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Final flush, draining whatever is still buffered.
			for {
				select {
				case t := <-l.journalBuffer:
					batch = append(batch, t)
				default:
					if len(batch) > 0 {
						l.flushJournalBatch(ctx, batch)
					}
					return
				}
			}

		case t := <-l.journalBuffer:
			batch = append(batch, t)
			if len(batch) >= l.journalBatchSize {
				l.flushJournalBatch(ctx, batch)
				batch = make([]*trade.Trade, 0, l.journalBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				l.flushJournalBatch(ctx, batch)
				batch = make([]*trade.Trade, 0, l.journalBatchSize)
			}
		}
	}
}

func (l *Launchpad) flushJournalBatch(ctx context.Context, batch []*trade.Trade) {
	start := time.Now()

	if err := l.store.RecordTrades(ctx, batch); err != nil {
		l.logger.Error("failed to flush trade journal batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	l.plugins.EmitJournalFlushed(ctx, len(batch), elapsed)

	l.logger.Debug("flushed trade journal batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// lockAsset acquires the per-asset mutex and returns its unlock function.
func (l *Launchpad) lockAsset(assetID string) func() {
	l.locksMu.Lock()
	m, ok := l.locks[assetID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[assetID] = m
	}
	l.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// rejectTrade emits the rejection event and returns the reason unchanged.
// Rejections happen before any state change.
func (l *Launchpad) rejectTrade(ctx context.Context, assetID, counterparty string, side trade.Side, reason error) error {
	l.plugins.EmitTradeRejected(ctx, assetID, counterparty, string(side), reason)

	l.logger.Debug("trade rejected",
		"asset_id", assetID,
		"counterparty", counterparty,
		"side", side,
		"reason", reason,
	)

	return reason
}

// compensate runs an unwind step after a partial failure and logs loudly if
// the unwind itself fails, since that leaves external state inconsistent.
func (l *Launchpad) compensate(action string, fn func() error) {
	if err := fn(); err != nil {
		l.logger.Error("compensation failed, external state may be inconsistent",
			"action", action,
			"error", err,
		)
	}
}
