package launchpad_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/launchpad"
	bankmemory "github.com/xraph/launchpad/bank/memory"
	"github.com/xraph/launchpad/store/memory"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create backends (memory for demo, use PostgreSQL in production)
		store := memory.New()
		bank := bankmemory.New()

		// Initialize Launchpad
		l := launchpad.New(store, bank,
			launchpad.WithLogger(slog.Default()),
			launchpad.WithJournalConfig(100, 5*time.Second),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Initialize an asset issuance
		rec, err := l.Initialize(ctx, launchpad.InitializeRequest{
			AssetID:      "asset_demo",
			Controller:   "alice",
			Name:         "Demo Token",
			Symbol:       "DEMO",
			Decimals:     6,
			InitialPrice: 1_000_000,
			MaxSupply:    1_000_000_000_000,
		})
		if err != nil {
			t.Fatal(err)
		}

		// Fund a buyer and purchase tokens
		bank.Deposit("bob", 10_000_000)

		quote, err := l.QuoteBuy(ctx, "asset_demo", 5_000_000)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Quote: %d units at price %d\n", quote.TokenUnits, quote.Price)

		bought, err := l.Buy(ctx, "asset_demo", "bob", 5_000_000)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Bought %d units for %d\n", bought.TokenUnits, bought.CurrencyAmount)

		// Sell part of the position back
		sold, err := l.Sell(ctx, "asset_demo", "bob", 3_000_000)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Sold %d units for %d\n", sold.TokenUnits, sold.CurrencyAmount)

		// Controller withdraws from the reserve
		w, err := l.Withdraw(ctx, "asset_demo", "alice", 1_000_000)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Withdrew %d from %s reserve\n", w.Amount, rec.AssetID)
	})

	// Test arithmetic helper examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Checked arithmetic
		sum, err := launchpad.CheckedAdd(100, 200)
		if err != nil || sum != 300 {
			t.Fatalf("CheckedAdd = %d, %v", sum, err)
		}

		// Overflow is an error, never a wrap
		if _, err := launchpad.CheckedMul(1<<63, 2); err == nil {
			t.Fatal("expected overflow error")
		}
	})
}
