package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/launchpad"
	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	"github.com/xraph/launchpad/trade"
)

type Store struct {
	mu sync.RWMutex

	// Issuance storage
	issuances map[string]*issuance.Record
	byAsset   map[string]string // assetID -> record ID

	// Trade journal
	trades []trade.Trade

	// Withdrawal journal
	withdrawals []trade.Withdrawal
}

func New() *Store {
	return &Store{
		issuances:   make(map[string]*issuance.Record),
		byAsset:     make(map[string]string),
		trades:      make([]trade.Trade, 0),
		withdrawals: make([]trade.Withdrawal, 0),
	}
}

// Issuance Store implementation

func (s *Store) CreateIssuance(_ context.Context, r *issuance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAsset[r.AssetID]; exists {
		return launchpad.ErrAlreadyInitialized
	}

	stored := *r
	s.issuances[r.ID.String()] = &stored
	s.byAsset[r.AssetID] = r.ID.String()
	return nil
}

func (s *Store) GetIssuance(_ context.Context, recordID id.IssuanceID) (*issuance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.issuances[recordID.String()]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, launchpad.ErrIssuanceNotFound
}

func (s *Store) GetIssuanceByAsset(_ context.Context, assetID string) (*issuance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rid, ok := s.byAsset[assetID]; ok {
		if r, ok := s.issuances[rid]; ok {
			cp := *r
			return &cp, nil
		}
	}
	return nil, launchpad.ErrIssuanceNotFound
}

func (s *Store) ListIssuances(_ context.Context, opts issuance.ListOpts) ([]*issuance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*issuance.Record, 0)
	for _, r := range s.issuances {
		if opts.Controller == "" || r.Controller == opts.Controller {
			cp := *r
			result = append(result, &cp)
		}
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateIssuance(_ context.Context, r *issuance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.issuances[r.ID.String()]; !exists {
		return launchpad.ErrIssuanceNotFound
	}
	stored := *r
	s.issuances[r.ID.String()] = &stored
	return nil
}

func (s *Store) DeleteIssuance(_ context.Context, recordID id.IssuanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.issuances[recordID.String()]; ok {
		delete(s.byAsset, r.AssetID)
	}
	delete(s.issuances, recordID.String())
	return nil
}

// Trade journal implementation

func (s *Store) RecordTrades(_ context.Context, trades []*trade.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		s.trades = append(s.trades, *t)
	}
	return nil
}

func (s *Store) ListTrades(_ context.Context, assetID string, opts trade.ListOpts) ([]*trade.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*trade.Trade, 0)
	for i := range s.trades {
		t := &s.trades[i]
		if !matchesTrade(t, assetID, opts) {
			continue
		}
		result = append(result, t)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) AggregateVolume(_ context.Context, assetID string, since time.Time) (*trade.Volume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vol := &trade.Volume{AssetID: assetID}
	for i := range s.trades {
		t := &s.trades[i]
		if t.AssetID != assetID {
			continue
		}
		if !since.IsZero() && t.ExecutedAt.Before(since) {
			continue
		}
		switch t.Side {
		case trade.SideBuy:
			vol.Buys++
			vol.CurrencyBought += t.CurrencyAmount
			vol.TokensBought += t.TokenUnits
		case trade.SideSell:
			vol.Sells++
			vol.CurrencySold += t.CurrencyAmount
			vol.TokensSold += t.TokenUnits
		}
	}
	return vol, nil
}

func (s *Store) PurgeTrades(_ context.Context, assetID string, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]trade.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		if t.AssetID == assetID && t.ExecutedAt.Before(before) {
			count++
		} else {
			kept = append(kept, t)
		}
	}
	s.trades = kept
	return count, nil
}

// Withdrawal journal implementation

func (s *Store) RecordWithdrawal(_ context.Context, w *trade.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.withdrawals = append(s.withdrawals, *w)
	return nil
}

func (s *Store) ListWithdrawals(_ context.Context, assetID string, opts trade.ListOpts) ([]*trade.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*trade.Withdrawal, 0)
	for i := range s.withdrawals {
		w := &s.withdrawals[i]
		if w.AssetID != assetID {
			continue
		}
		if !opts.Since.IsZero() && w.ExecutedAt.Before(opts.Since) {
			continue
		}
		result = append(result, w)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Store management

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions

func matchesTrade(t *trade.Trade, assetID string, opts trade.ListOpts) bool {
	if t.AssetID != assetID {
		return false
	}
	if opts.Side != "" && t.Side != opts.Side {
		return false
	}
	if opts.Counterparty != "" && t.Counterparty != opts.Counterparty {
		return false
	}
	if !opts.Since.IsZero() && t.ExecutedAt.Before(opts.Since) {
		return false
	}
	return true
}
