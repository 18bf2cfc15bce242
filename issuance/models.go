package issuance

import (
	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/types"
)

// Record is the authoritative accounting state for one issued asset. There is
// exactly one Record per asset; every buy, sell, and withdrawal reads and
// updates it under the engine's per-asset serialization.
type Record struct {
	types.Entity
	ID         id.IssuanceID `json:"id"`
	AssetID    string        `json:"asset_id"`
	Controller string        `json:"controller"`
	Name       string        `json:"name"`
	Symbol     string        `json:"symbol"`
	Decimals   uint8         `json:"decimals"`

	// CurrentPrice is the unit price in base currency units per whole token.
	// Set at initialization, recomputed from the curve after every buy/sell.
	CurrentPrice uint64 `json:"current_price"`

	// MaxSupply and TotalIssued are in token base units (scaled by
	// 10^Decimals). TotalIssued never exceeds MaxSupply.
	MaxSupply   uint64 `json:"max_supply"`
	TotalIssued uint64 `json:"total_issued"`

	// ReserveCollected tracks the currency taken in through buys net of what
	// was paid out through sells. Withdrawals do not reduce it, so it can
	// exceed the reserve account's actual balance.
	ReserveCollected uint64 `json:"reserve_collected"`

	// ReserveAccount is the bank account holding the collected currency.
	ReserveAccount string `json:"reserve_account"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Remaining returns the token base units still available for issuance.
func (r *Record) Remaining() uint64 {
	if r.TotalIssued >= r.MaxSupply {
		return 0
	}
	return r.MaxSupply - r.TotalIssued
}

// FullyIssued reports whether the supply cap has been reached.
func (r *Record) FullyIssued() bool {
	return r.TotalIssued >= r.MaxSupply
}

// SupplyRatioPct returns the whole-percentage issuance level used by the
// pricing curve.
func (r *Record) SupplyRatioPct() uint64 {
	if r.MaxSupply == 0 {
		return 0
	}
	return r.TotalIssued * 100 / r.MaxSupply
}
