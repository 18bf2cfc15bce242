package launchpad_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/xraph/launchpad"
	"github.com/xraph/launchpad/bank"
	bankmemory "github.com/xraph/launchpad/bank/memory"
	"github.com/xraph/launchpad/store/memory"
	"github.com/xraph/launchpad/trade"
)

func newEngine(t *testing.T) (*launchpad.Launchpad, *memory.Store, *bankmemory.Bank) {
	t.Helper()
	s := memory.New()
	b := bankmemory.New()
	return launchpad.New(s, b), s, b
}

// initAsset creates a standard six-decimal asset: price 1_000_000 per whole
// token, room for one million whole tokens.
func initAsset(t *testing.T, l *launchpad.Launchpad, assetID string) {
	t.Helper()
	_, err := l.Initialize(context.Background(), launchpad.InitializeRequest{
		AssetID:      assetID,
		Controller:   "alice",
		Name:         "Test Token",
		Symbol:       "TST",
		Decimals:     6,
		InitialPrice: 1_000_000,
		MaxSupply:    1_000_000_000_000,
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		l, _, _ := newEngine(t)

		rec, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_a",
			Controller:   "alice",
			Symbol:       "AAA",
			Decimals:     6,
			InitialPrice: 1_000_000,
			MaxSupply:    1_000_000_000_000,
		})
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}

		if rec.TotalIssued != 0 {
			t.Errorf("TotalIssued = %d, want 0", rec.TotalIssued)
		}
		if rec.ReserveCollected != 0 {
			t.Errorf("ReserveCollected = %d, want 0", rec.ReserveCollected)
		}
		if rec.CurrentPrice != 1_000_000 {
			t.Errorf("CurrentPrice = %d, want 1000000", rec.CurrentPrice)
		}
		if rec.ReserveAccount != bank.ReserveAccount("asset_a") {
			t.Errorf("ReserveAccount = %q", rec.ReserveAccount)
		}
		if rec.ID.IsNil() {
			t.Error("expected non-nil issuance ID")
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		l, _, _ := newEngine(t)
		initAsset(t, l, "asset_a")

		_, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_a",
			Controller:   "bob",
			InitialPrice: 1,
			MaxSupply:    1,
		})
		if !errors.Is(err, launchpad.ErrAlreadyInitialized) {
			t.Errorf("err = %v, want ErrAlreadyInitialized", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		l, _, _ := newEngine(t)

		cases := []struct {
			name string
			req  launchpad.InitializeRequest
		}{
			{"missing asset", launchpad.InitializeRequest{Controller: "a", InitialPrice: 1, MaxSupply: 1}},
			{"missing controller", launchpad.InitializeRequest{AssetID: "x", InitialPrice: 1, MaxSupply: 1}},
			{"zero max supply", launchpad.InitializeRequest{AssetID: "x", Controller: "a", InitialPrice: 1}},
			{"zero price", launchpad.InitializeRequest{AssetID: "x", Controller: "a", MaxSupply: 1}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := l.Initialize(ctx, tc.req); !errors.Is(err, launchpad.ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			})
		}
	})
}

func TestBuy(t *testing.T) {
	ctx := context.Background()

	t.Run("Basic", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 10_000_000)

		tr, err := l.Buy(ctx, "asset_a", "bob", 5_000_000)
		if err != nil {
			t.Fatalf("Buy: %v", err)
		}

		// 5_000_000 at price 1_000_000 buys 5 whole tokens = 5_000_000 units.
		if tr.TokenUnits != 5_000_000 {
			t.Errorf("TokenUnits = %d, want 5000000", tr.TokenUnits)
		}
		if tr.Price != 1_000_000 {
			t.Errorf("Price = %d, want 1000000", tr.Price)
		}
		if tr.Side != trade.SideBuy {
			t.Errorf("Side = %q, want buy", tr.Side)
		}

		balance, _ := b.Balance(ctx, "bob")
		if balance != 5_000_000 {
			t.Errorf("buyer balance = %d, want 5000000", balance)
		}
		reserve, _ := b.Balance(ctx, bank.ReserveAccount("asset_a"))
		if reserve != 5_000_000 {
			t.Errorf("reserve balance = %d, want 5000000", reserve)
		}
		tokens, _ := b.TokenBalance(ctx, "asset_a", "bob")
		if tokens != 5_000_000 {
			t.Errorf("token balance = %d, want 5000000", tokens)
		}

		rec, err := l.GetIssuanceByAsset(ctx, "asset_a")
		if err != nil {
			t.Fatalf("GetIssuanceByAsset: %v", err)
		}
		if rec.TotalIssued != 5_000_000 {
			t.Errorf("TotalIssued = %d, want 5000000", rec.TotalIssued)
		}
		if rec.ReserveCollected != 5_000_000 {
			t.Errorf("ReserveCollected = %d, want 5000000", rec.ReserveCollected)
		}
	})

	t.Run("PriceClimbsWithSupply", func(t *testing.T) {
		// Zero-decimal asset with a small max supply so a single purchase
		// moves the curve: buying half the supply raises the price 50%.
		l, _, b := newEngine(t)
		_, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_b",
			Controller:   "alice",
			Decimals:     0,
			InitialPrice: 1_000_000,
			MaxSupply:    1_000_000,
		})
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		b.Deposit("bob", 500_000_000_000)

		tr, err := l.Buy(ctx, "asset_b", "bob", 500_000_000_000)
		if err != nil {
			t.Fatalf("Buy: %v", err)
		}
		if tr.TokenUnits != 500_000 {
			t.Fatalf("TokenUnits = %d, want 500000", tr.TokenUnits)
		}

		rec, _ := l.GetIssuanceByAsset(ctx, "asset_b")
		if rec.CurrentPrice != 1_500_000 {
			t.Errorf("CurrentPrice = %d, want 1500000", rec.CurrentPrice)
		}
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		l, _, _ := newEngine(t)
		initAsset(t, l, "asset_a")

		if _, err := l.Buy(ctx, "asset_a", "bob", 0); !errors.Is(err, launchpad.ErrZeroQuantity) {
			t.Errorf("err = %v, want ErrZeroQuantity", err)
		}
	})

	t.Run("PaymentBelowPrice", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 999_999)

		if _, err := l.Buy(ctx, "asset_a", "bob", 999_999); !errors.Is(err, launchpad.ErrZeroQuantity) {
			t.Errorf("err = %v, want ErrZeroQuantity", err)
		}

		balance, _ := b.Balance(ctx, "bob")
		if balance != 999_999 {
			t.Errorf("buyer balance changed on rejected buy: %d", balance)
		}
	})

	t.Run("SupplyCapRejected", func(t *testing.T) {
		l, _, b := newEngine(t)
		_, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_small",
			Controller:   "alice",
			Decimals:     6,
			InitialPrice: 1_000_000,
			MaxSupply:    10_000_000, // 10 whole tokens
		})
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		b.Deposit("bob", 11_000_000)

		_, err = l.Buy(ctx, "asset_small", "bob", 11_000_000)
		if !errors.Is(err, launchpad.ErrMaxSupplyExceeded) {
			t.Fatalf("err = %v, want ErrMaxSupplyExceeded", err)
		}

		// Rejection happens before any effect.
		rec, _ := l.GetIssuanceByAsset(ctx, "asset_small")
		if rec.TotalIssued != 0 || rec.ReserveCollected != 0 {
			t.Errorf("record changed on rejected buy: issued=%d reserve=%d",
				rec.TotalIssued, rec.ReserveCollected)
		}
		balance, _ := b.Balance(ctx, "bob")
		if balance != 11_000_000 {
			t.Errorf("buyer balance changed on rejected buy: %d", balance)
		}
	})

	t.Run("OverflowRejected", func(t *testing.T) {
		l, _, b := newEngine(t)
		_, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_huge",
			Controller:   "alice",
			Decimals:     0,
			InitialPrice: 1,
			MaxSupply:    math.MaxUint64,
		})
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		b.Deposit("bob", math.MaxUint64)

		// Repricing at MaxUint64 issued units cannot be computed in uint64.
		_, err = l.Buy(ctx, "asset_huge", "bob", math.MaxUint64)
		if !errors.Is(err, launchpad.ErrMathOverflow) {
			t.Fatalf("err = %v, want ErrMathOverflow", err)
		}

		balance, _ := b.Balance(ctx, "bob")
		if balance != math.MaxUint64 {
			t.Errorf("buyer balance changed on rejected buy: %d", balance)
		}
		rec, _ := l.GetIssuanceByAsset(ctx, "asset_huge")
		if rec.TotalIssued != 0 {
			t.Errorf("TotalIssued = %d, want 0", rec.TotalIssued)
		}
	})

	t.Run("MintFailureRefundsBuyer", func(t *testing.T) {
		s := memory.New()
		fb := &flakyBank{Bank: bankmemory.New(), failMint: true}
		l := launchpad.New(s, fb)

		_, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_a",
			Controller:   "alice",
			Decimals:     6,
			InitialPrice: 1_000_000,
			MaxSupply:    1_000_000_000_000,
		})
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		fb.Deposit("bob", 5_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 5_000_000); err == nil {
			t.Fatal("expected buy to fail when mint fails")
		}

		// Payment was collected then refunded.
		balance, _ := fb.Balance(ctx, "bob")
		if balance != 5_000_000 {
			t.Errorf("buyer balance = %d, want full refund of 5000000", balance)
		}
		reserve, _ := fb.Balance(ctx, bank.ReserveAccount("asset_a"))
		if reserve != 0 {
			t.Errorf("reserve balance = %d, want 0", reserve)
		}
		rec, _ := l.GetIssuanceByAsset(ctx, "asset_a")
		if rec.TotalIssued != 0 || rec.ReserveCollected != 0 {
			t.Errorf("record changed on failed buy: issued=%d reserve=%d",
				rec.TotalIssued, rec.ReserveCollected)
		}
	})
}

func TestSell(t *testing.T) {
	ctx := context.Background()

	t.Run("Basic", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 10_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 1_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}

		// One whole token at price 1_000_000 pays out 90%: 900_000.
		tr, err := l.Sell(ctx, "asset_a", "bob", 1_000_000)
		if err != nil {
			t.Fatalf("Sell: %v", err)
		}
		if tr.CurrencyAmount != 900_000 {
			t.Errorf("payout = %d, want 900000", tr.CurrencyAmount)
		}
		if tr.Side != trade.SideSell {
			t.Errorf("Side = %q, want sell", tr.Side)
		}

		balance, _ := b.Balance(ctx, "bob")
		if balance != 9_900_000 {
			t.Errorf("seller balance = %d, want 9900000", balance)
		}
		tokens, _ := b.TokenBalance(ctx, "asset_a", "bob")
		if tokens != 0 {
			t.Errorf("token balance = %d, want 0", tokens)
		}

		rec, _ := l.GetIssuanceByAsset(ctx, "asset_a")
		if rec.TotalIssued != 0 {
			t.Errorf("TotalIssued = %d, want 0", rec.TotalIssued)
		}
		if rec.ReserveCollected != 100_000 {
			t.Errorf("ReserveCollected = %d, want 100000", rec.ReserveCollected)
		}
	})

	t.Run("RoundTripFriction", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 10_000_000)

		bought, err := l.Buy(ctx, "asset_a", "bob", 5_000_000)
		if err != nil {
			t.Fatalf("Buy: %v", err)
		}
		if _, err := l.Sell(ctx, "asset_a", "bob", bought.TokenUnits); err != nil {
			t.Fatalf("Sell: %v", err)
		}

		// Slippage guarantees a full round trip never profits.
		balance, _ := b.Balance(ctx, "bob")
		if balance >= 10_000_000 {
			t.Errorf("round trip did not lose value: balance = %d", balance)
		}
	})

	t.Run("ZeroUnits", func(t *testing.T) {
		l, _, _ := newEngine(t)
		initAsset(t, l, "asset_a")

		if _, err := l.Sell(ctx, "asset_a", "bob", 0); !errors.Is(err, launchpad.ErrZeroQuantity) {
			t.Errorf("err = %v, want ErrZeroQuantity", err)
		}
	})

	t.Run("ExceedsIssuedSupply", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 2_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 1_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}
		if _, err := l.Sell(ctx, "asset_a", "bob", 2_000_000); !errors.Is(err, launchpad.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("InsufficientReserveAfterWithdrawal", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 5_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 5_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}

		// The controller drains most of the reserve: 400_000 remains, but a
		// single-token sell needs 900_000.
		if _, err := l.Withdraw(ctx, "asset_a", "alice", 4_600_000); err != nil {
			t.Fatalf("Withdraw: %v", err)
		}

		_, err := l.Sell(ctx, "asset_a", "bob", 1_000_000)
		if !errors.Is(err, launchpad.ErrInsufficientReserve) {
			t.Fatalf("err = %v, want ErrInsufficientReserve", err)
		}

		// The seller keeps the tokens; nothing moved.
		tokens, _ := b.TokenBalance(ctx, "asset_a", "bob")
		if tokens != 5_000_000 {
			t.Errorf("token balance = %d, want 5000000", tokens)
		}
		rec, _ := l.GetIssuanceByAsset(ctx, "asset_a")
		if rec.TotalIssued != 5_000_000 {
			t.Errorf("TotalIssued = %d, want 5000000", rec.TotalIssued)
		}
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("Authorized", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 5_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 5_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}

		w, err := l.Withdraw(ctx, "asset_a", "alice", 2_000_000)
		if err != nil {
			t.Fatalf("Withdraw: %v", err)
		}
		if w.Amount != 2_000_000 {
			t.Errorf("Amount = %d, want 2000000", w.Amount)
		}

		balance, _ := b.Balance(ctx, "alice")
		if balance != 2_000_000 {
			t.Errorf("controller balance = %d, want 2000000", balance)
		}
		reserve, _ := b.Balance(ctx, bank.ReserveAccount("asset_a"))
		if reserve != 3_000_000 {
			t.Errorf("reserve balance = %d, want 3000000", reserve)
		}

		// Withdrawal is treasury movement, not a trade: supply, price, and
		// the collected total stay put.
		rec, _ := l.GetIssuanceByAsset(ctx, "asset_a")
		if rec.ReserveCollected != 5_000_000 {
			t.Errorf("ReserveCollected = %d, want 5000000", rec.ReserveCollected)
		}
		if rec.TotalIssued != 5_000_000 {
			t.Errorf("TotalIssued = %d, want 5000000", rec.TotalIssued)
		}

		withdrawals, err := l.ListWithdrawals(ctx, "asset_a", trade.ListOpts{})
		if err != nil {
			t.Fatalf("ListWithdrawals: %v", err)
		}
		if len(withdrawals) != 1 {
			t.Errorf("len(withdrawals) = %d, want 1", len(withdrawals))
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 5_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 5_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}

		_, err := l.Withdraw(ctx, "asset_a", "mallory", 1_000_000)
		if !errors.Is(err, launchpad.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}

		reserve, _ := b.Balance(ctx, bank.ReserveAccount("asset_a"))
		if reserve != 5_000_000 {
			t.Errorf("reserve balance = %d, want untouched 5000000", reserve)
		}
	})

	t.Run("ExceedsReserve", func(t *testing.T) {
		l, _, b := newEngine(t)
		initAsset(t, l, "asset_a")
		b.Deposit("bob", 5_000_000)

		if _, err := l.Buy(ctx, "asset_a", "bob", 5_000_000); err != nil {
			t.Fatalf("Buy: %v", err)
		}

		_, err := l.Withdraw(ctx, "asset_a", "alice", 5_000_001)
		if !errors.Is(err, launchpad.ErrInsufficientReserve) {
			t.Errorf("err = %v, want ErrInsufficientReserve", err)
		}
	})

	t.Run("UnknownAsset", func(t *testing.T) {
		l, _, _ := newEngine(t)

		_, err := l.Withdraw(ctx, "asset_missing", "alice", 1)
		if !errors.Is(err, launchpad.ErrIssuanceNotFound) {
			t.Errorf("err = %v, want ErrIssuanceNotFound", err)
		}
	})
}

func TestQuotes(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newEngine(t)
	initAsset(t, l, "asset_a")

	t.Run("QuoteBuy", func(t *testing.T) {
		q, err := l.QuoteBuy(ctx, "asset_a", 3_500_000)
		if err != nil {
			t.Fatalf("QuoteBuy: %v", err)
		}
		// Partial tokens are floored away: 3.5 tokens worth buys 3.
		if q.TokenUnits != 3_000_000 {
			t.Errorf("TokenUnits = %d, want 3000000", q.TokenUnits)
		}
		if q.Price != 1_000_000 {
			t.Errorf("Price = %d, want 1000000", q.Price)
		}
	})

	t.Run("QuoteSell", func(t *testing.T) {
		q, err := l.QuoteSell(ctx, "asset_a", 2_000_000)
		if err != nil {
			t.Fatalf("QuoteSell: %v", err)
		}
		if q.CurrencyAmount != 1_800_000 {
			t.Errorf("CurrencyAmount = %d, want 1800000", q.CurrencyAmount)
		}
	})

	t.Run("QuoteBuyTooSmall", func(t *testing.T) {
		if _, err := l.QuoteBuy(ctx, "asset_a", 1); !errors.Is(err, launchpad.ErrZeroQuantity) {
			t.Errorf("err = %v, want ErrZeroQuantity", err)
		}
	})
}

func TestTradeJournal(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	b := bankmemory.New()
	l := launchpad.New(s, b,
		launchpad.WithJournalConfig(10, 50*time.Millisecond),
	)

	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	initAsset(t, l, "asset_a")
	b.Deposit("bob", 10_000_000)

	if _, err := l.Buy(ctx, "asset_a", "bob", 3_000_000); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if _, err := l.Sell(ctx, "asset_a", "bob", 1_000_000); err != nil {
		t.Fatalf("Sell: %v", err)
	}

	// Stop drains and flushes the journal buffer.
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	trades, err := s.ListTrades(ctx, "asset_a", trade.ListOpts{})
	if err != nil {
		t.Fatalf("ListTrades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("len(trades) = %d, want 2", len(trades))
	}

	vol, err := s.AggregateVolume(ctx, "asset_a", time.Time{})
	if err != nil {
		t.Fatalf("AggregateVolume: %v", err)
	}
	if vol.Buys != 1 || vol.Sells != 1 {
		t.Errorf("volume = %d buys / %d sells, want 1/1", vol.Buys, vol.Sells)
	}
	if vol.CurrencyBought != 3_000_000 {
		t.Errorf("CurrencyBought = %d, want 3000000", vol.CurrencyBought)
	}
	if vol.CurrencySold != 900_000 {
		t.Errorf("CurrencySold = %d, want 900000", vol.CurrencySold)
	}
}

// flakyBank wraps the memory bank and fails minting on demand, for testing
// compensation paths.
type flakyBank struct {
	*bankmemory.Bank
	failMint bool
}

func (b *flakyBank) Mint(ctx context.Context, assetID, to string, amount uint64) error {
	if b.failMint {
		return errors.New("mint unavailable")
	}
	return b.Bank.Mint(ctx, assetID, to, amount)
}
