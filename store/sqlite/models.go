package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/launchpad/id"
	"github.com/xraph/launchpad/issuance"
	"github.com/xraph/launchpad/trade"
	"github.com/xraph/launchpad/types"
)

// Amounts round-trip through int64, same as the postgres driver.

// ==================== Issuance models ====================

type issuanceModel struct {
	grove.BaseModel `grove:"table:launchpad_issuances"`

	ID               string            `grove:"id,pk"`
	AssetID          string            `grove:"asset_id"`
	Controller       string            `grove:"controller"`
	Name             string            `grove:"name"`
	Symbol           string            `grove:"symbol"`
	Decimals         int               `grove:"decimals"`
	CurrentPrice     int64             `grove:"current_price"`
	MaxSupply        int64             `grove:"max_supply"`
	TotalIssued      int64             `grove:"total_issued"`
	ReserveCollected int64             `grove:"reserve_collected"`
	ReserveAccount   string            `grove:"reserve_account"`
	Metadata         map[string]string `grove:"metadata,type:json"`
	CreatedAt        time.Time         `grove:"created_at"`
	UpdatedAt        time.Time         `grove:"updated_at"`
}

func toIssuanceModel(r *issuance.Record) *issuanceModel {
	return &issuanceModel{
		ID:               r.ID.String(),
		AssetID:          r.AssetID,
		Controller:       r.Controller,
		Name:             r.Name,
		Symbol:           r.Symbol,
		Decimals:         int(r.Decimals),
		CurrentPrice:     int64(r.CurrentPrice),
		MaxSupply:        int64(r.MaxSupply),
		TotalIssued:      int64(r.TotalIssued),
		ReserveCollected: int64(r.ReserveCollected),
		ReserveAccount:   r.ReserveAccount,
		Metadata:         r.Metadata,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func fromIssuanceModel(m *issuanceModel) (*issuance.Record, error) {
	recordID, err := id.ParseIssuanceID(m.ID)
	if err != nil {
		return nil, err
	}

	return &issuance.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:               recordID,
		AssetID:          m.AssetID,
		Controller:       m.Controller,
		Name:             m.Name,
		Symbol:           m.Symbol,
		Decimals:         uint8(m.Decimals),
		CurrentPrice:     uint64(m.CurrentPrice),
		MaxSupply:        uint64(m.MaxSupply),
		TotalIssued:      uint64(m.TotalIssued),
		ReserveCollected: uint64(m.ReserveCollected),
		ReserveAccount:   m.ReserveAccount,
		Metadata:         m.Metadata,
	}, nil
}

// ==================== Trade models ====================

type tradeModel struct {
	grove.BaseModel `grove:"table:launchpad_trades"`

	ID             string    `grove:"id,pk"`
	AssetID        string    `grove:"asset_id"`
	Side           string    `grove:"side"`
	Counterparty   string    `grove:"counterparty"`
	CurrencyAmount int64     `grove:"currency_amount"`
	TokenUnits     int64     `grove:"token_units"`
	Price          int64     `grove:"price"`
	ExecutedAt     time.Time `grove:"executed_at"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toTradeModel(t *trade.Trade) *tradeModel {
	return &tradeModel{
		ID:             t.ID.String(),
		AssetID:        t.AssetID,
		Side:           string(t.Side),
		Counterparty:   t.Counterparty,
		CurrencyAmount: int64(t.CurrencyAmount),
		TokenUnits:     int64(t.TokenUnits),
		Price:          int64(t.Price),
		ExecutedAt:     t.ExecutedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func fromTradeModel(m *tradeModel) (*trade.Trade, error) {
	tradeID, err := id.ParseTradeID(m.ID)
	if err != nil {
		return nil, err
	}

	return &trade.Trade{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             tradeID,
		AssetID:        m.AssetID,
		Side:           trade.Side(m.Side),
		Counterparty:   m.Counterparty,
		CurrencyAmount: uint64(m.CurrencyAmount),
		TokenUnits:     uint64(m.TokenUnits),
		Price:          uint64(m.Price),
		ExecutedAt:     m.ExecutedAt,
	}, nil
}

// ==================== Withdrawal models ====================

type withdrawalModel struct {
	grove.BaseModel `grove:"table:launchpad_withdrawals"`

	ID         string    `grove:"id,pk"`
	AssetID    string    `grove:"asset_id"`
	Requester  string    `grove:"requester"`
	Amount     int64     `grove:"amount"`
	ExecutedAt time.Time `grove:"executed_at"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

func toWithdrawalModel(w *trade.Withdrawal) *withdrawalModel {
	return &withdrawalModel{
		ID:         w.ID.String(),
		AssetID:    w.AssetID,
		Requester:  w.Requester,
		Amount:     int64(w.Amount),
		ExecutedAt: w.ExecutedAt,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func fromWithdrawalModel(m *withdrawalModel) (*trade.Withdrawal, error) {
	withdrawalID, err := id.ParseWithdrawalID(m.ID)
	if err != nil {
		return nil, err
	}

	return &trade.Withdrawal{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         withdrawalID,
		AssetID:    m.AssetID,
		Requester:  m.Requester,
		Amount:     uint64(m.Amount),
		ExecutedAt: m.ExecutedAt,
	}, nil
}
