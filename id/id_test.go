package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/launchpad/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"IssuanceID", id.NewIssuanceID, "issu_"},
		{"TradeID", id.NewTradeID, "trade_"},
		{"WithdrawalID", id.NewWithdrawalID, "wdrl_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixIssuance)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixIssuance {
		t.Errorf("expected prefix %q, got %q", id.PrefixIssuance, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"IssuanceID", id.NewIssuanceID, id.ParseIssuanceID},
		{"TradeID", id.NewTradeID, id.ParseTradeID},
		{"WithdrawalID", id.NewWithdrawalID, id.ParseWithdrawalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParseIssuanceID rejects trade_", id.NewTradeID().String(), id.ParseIssuanceID},
		{"ParseTradeID rejects wdrl_", id.NewWithdrawalID().String(), id.ParseTradeID},
		{"ParseWithdrawalID rejects issu_", id.NewIssuanceID().String(), id.ParseWithdrawalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parseFn(tt.input); err == nil {
				t.Error("expected prefix mismatch error, got nil")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("nil ID should render empty, got %q", i.String())
	}

	v, err := i.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("nil ID should store NULL, got %v", v)
	}
}

func TestScan(t *testing.T) {
	original := id.NewIssuanceID()

	var scanned id.ID
	if err := scanned.Scan(original.String()); err != nil {
		t.Fatalf("Scan string failed: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("Scan mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan nil failed: %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("scanning nil should yield the Nil ID")
	}

	var fromInt id.ID
	if err := fromInt.Scan(42); err == nil {
		t.Error("expected error scanning unsupported type")
	}
}
