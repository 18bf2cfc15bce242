// Package bank defines the external value-movement collaborator.
//
// The engine never holds funds itself: currency transfers and token
// mints/burns are delegated to a Bank supplied by the host. The engine treats
// the Bank as the source of truth for balances — in particular, sell payouts
// and withdrawals are checked against the reserve account's actual balance,
// not against the engine's own bookkeeping.
package bank

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds is returned when an account cannot cover a
	// transfer, burn, or balance check.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")

	// ErrUnknownAccount is returned when the named account does not exist.
	ErrUnknownAccount = errors.New("bank: unknown account")
)

// Bank moves currency and token value between accounts. Implementations must
// make each call atomic: a Transfer either moves the full amount or moves
// nothing.
type Bank interface {
	// Transfer moves currency from one account to another.
	Transfer(ctx context.Context, from, to string, amount uint64) error

	// Mint creates token base units of the given asset in the account.
	Mint(ctx context.Context, assetID, to string, amount uint64) error

	// Burn destroys token base units of the given asset held by the account.
	Burn(ctx context.Context, assetID, from string, amount uint64) error

	// Balance returns the currency balance of an account. Accounts that have
	// never been credited report zero.
	Balance(ctx context.Context, account string) (uint64, error)

	// TokenBalance returns the account's holdings of the given asset in
	// token base units.
	TokenBalance(ctx context.Context, assetID, account string) (uint64, error)
}

// ReserveAccount derives the reserve account identity for an asset. All
// currency collected through buys of the asset accumulates here.
func ReserveAccount(assetID string) string {
	return "reserve:" + assetID
}
