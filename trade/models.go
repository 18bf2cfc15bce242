package trade

import (
	"time"

	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/types"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one executed buy or sell, journaled for audit and analytics.
// The issuance record is the accounting source of truth; trades are the
// history of how it got there.
type Trade struct {
	types.Entity
	ID           id.TradeID `json:"id"`
	AssetID      string     `json:"asset_id"`
	Side         Side       `json:"side"`
	Counterparty string     `json:"counterparty"`

	// CurrencyAmount is what the counterparty paid (buy) or received (sell),
	// in base currency units. TokenUnits is what they received (buy) or
	// surrendered (sell), in token base units.
	CurrencyAmount uint64 `json:"currency_amount"`
	TokenUnits     uint64 `json:"token_units"`

	// Price is the unit price the conversion was executed at, before the
	// post-trade reprice.
	Price uint64 `json:"price"`

	ExecutedAt time.Time `json:"executed_at"`
}

// Withdrawal is one controller withdrawal from an asset's reserve account.
type Withdrawal struct {
	types.Entity
	ID        id.WithdrawalID `json:"id"`
	AssetID   string          `json:"asset_id"`
	Requester string          `json:"requester"`
	Amount    uint64          `json:"amount"`

	ExecutedAt time.Time `json:"executed_at"`
}

// Volume is an aggregate over an asset's journaled trades.
type Volume struct {
	AssetID        string `json:"asset_id"`
	Buys           int64  `json:"buys"`
	Sells          int64  `json:"sells"`
	CurrencyBought uint64 `json:"currency_bought"`
	CurrencySold   uint64 `json:"currency_sold"`
	TokensBought   uint64 `json:"tokens_bought"`
	TokensSold     uint64 `json:"tokens_sold"`
}
