// Package memory provides an in-memory Bank for tests, demos, and
// single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/launchpad/bank"
	"github.com/xraph/launchpad/types"
)

// Bank is a thread-safe in-memory implementation of bank.Bank.
type Bank struct {
	mu       sync.Mutex
	currency map[string]uint64            // account -> balance
	tokens   map[string]map[string]uint64 // assetID -> account -> units
}

var _ bank.Bank = (*Bank)(nil)

// New creates an empty in-memory bank.
func New() *Bank {
	return &Bank{
		currency: make(map[string]uint64),
		tokens:   make(map[string]map[string]uint64),
	}
}

// Deposit credits currency to an account, creating it if needed. Intended
// for seeding test fixtures.
func (b *Bank) Deposit(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currency[account] += amount
}

func (b *Bank) Transfer(_ context.Context, from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	have, ok := b.currency[from]
	if !ok {
		return fmt.Errorf("%w: %s", bank.ErrUnknownAccount, from)
	}
	if have < amount {
		return fmt.Errorf("%w: %s has %d, need %d", bank.ErrInsufficientFunds, from, have, amount)
	}

	sum, err := types.CheckedAdd(b.currency[to], amount)
	if err != nil {
		return fmt.Errorf("bank: credit to %s: %w", to, err)
	}

	b.currency[from] = have - amount
	b.currency[to] = sum

	return nil
}

func (b *Bank) Mint(_ context.Context, assetID, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	holders := b.tokens[assetID]
	if holders == nil {
		holders = make(map[string]uint64)
		b.tokens[assetID] = holders
	}

	sum, err := types.CheckedAdd(holders[to], amount)
	if err != nil {
		return fmt.Errorf("bank: mint %s to %s: %w", assetID, to, err)
	}
	holders[to] = sum

	return nil
}

func (b *Bank) Burn(_ context.Context, assetID, from string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	holders := b.tokens[assetID]
	have := holders[from]
	if have < amount {
		return fmt.Errorf("%w: %s holds %d units of %s, need %d",
			bank.ErrInsufficientFunds, from, have, assetID, amount)
	}
	holders[from] = have - amount

	return nil
}

func (b *Bank) Balance(_ context.Context, account string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.currency[account], nil
}

func (b *Bank) TokenBalance(_ context.Context, assetID, account string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.tokens[assetID][account], nil
}
