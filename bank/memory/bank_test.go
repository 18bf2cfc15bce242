package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/launchpad/bank"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.Deposit("alice", 1_000)

	if err := b.Transfer(ctx, "alice", "bob", 400); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	aliceBal, _ := b.Balance(ctx, "alice")
	bobBal, _ := b.Balance(ctx, "bob")
	if aliceBal != 600 || bobBal != 400 {
		t.Errorf("balances after transfer: alice=%d bob=%d, want 600/400", aliceBal, bobBal)
	}
}

func TestTransferInsufficient(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.Deposit("alice", 100)

	err := b.Transfer(ctx, "alice", "bob", 101)
	if !errors.Is(err, bank.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Failed transfer must move nothing.
	aliceBal, _ := b.Balance(ctx, "alice")
	bobBal, _ := b.Balance(ctx, "bob")
	if aliceBal != 100 || bobBal != 0 {
		t.Errorf("balances changed on failed transfer: alice=%d bob=%d", aliceBal, bobBal)
	}
}

func TestTransferUnknownAccount(t *testing.T) {
	ctx := context.Background()
	b := New()

	err := b.Transfer(ctx, "ghost", "bob", 1)
	if !errors.Is(err, bank.ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestMintAndBurn(t *testing.T) {
	ctx := context.Background()
	b := New()

	if err := b.Mint(ctx, "asset-1", "alice", 5_000); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	units, _ := b.TokenBalance(ctx, "asset-1", "alice")
	if units != 5_000 {
		t.Errorf("token balance = %d, want 5000", units)
	}

	if err := b.Burn(ctx, "asset-1", "alice", 2_000); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	units, _ = b.TokenBalance(ctx, "asset-1", "alice")
	if units != 3_000 {
		t.Errorf("token balance after burn = %d, want 3000", units)
	}
}

func TestBurnInsufficient(t *testing.T) {
	ctx := context.Background()
	b := New()

	if err := b.Mint(ctx, "asset-1", "alice", 10); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	err := b.Burn(ctx, "asset-1", "alice", 11)
	if !errors.Is(err, bank.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	units, _ := b.TokenBalance(ctx, "asset-1", "alice")
	if units != 10 {
		t.Errorf("token balance changed on failed burn: %d", units)
	}
}

func TestBalanceUnknownIsZero(t *testing.T) {
	ctx := context.Background()
	b := New()

	bal, err := b.Balance(ctx, "nobody")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if bal != 0 {
		t.Errorf("expected zero balance, got %d", bal)
	}
}

func TestReserveAccount(t *testing.T) {
	if got := bank.ReserveAccount("asset-1"); got != "reserve:asset-1" {
		t.Errorf("ReserveAccount = %q", got)
	}
}
