package curve

import (
	"errors"
	"math"
	"testing"
)

func TestPrice(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name        string
		totalIssued uint64
		maxSupply   uint64
		want        uint64
	}{
		{"zero issuance", 0, 1_000_000, 1_000_000},
		{"half issued", 500_000, 1_000_000, 1_500_000},
		{"fully issued", 1_000_000, 1_000_000, 2_000_000},
		{"one percent", 10_000, 1_000_000, 1_010_000},
		{"just below one percent floors", 9_999, 1_000_000, 1_000_000},
		{"tiny supply", 1, 3, 1_330_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Price(tt.totalIssued, tt.maxSupply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Price(%d, %d) = %d, want %d", tt.totalIssued, tt.maxSupply, got, tt.want)
			}
		})
	}
}

func TestPriceMonotonic(t *testing.T) {
	p := DefaultParams()
	const maxSupply = 1_000_000

	prev := uint64(0)
	for issued := uint64(0); issued <= maxSupply; issued += 50_000 {
		price, err := p.Price(issued, maxSupply)
		if err != nil {
			t.Fatalf("Price(%d) failed: %v", issued, err)
		}
		if price < prev {
			t.Fatalf("price decreased: %d at issuance %d, previously %d", price, issued, prev)
		}
		prev = price
	}
}

func TestPriceErrors(t *testing.T) {
	p := DefaultParams()

	if _, err := p.Price(0, 0); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("zero maxSupply: expected ErrMathOverflow, got %v", err)
	}

	// totalIssued*100 overflows before the ratio divide.
	if _, err := p.Price(math.MaxUint64, math.MaxUint64); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("huge issuance: expected ErrMathOverflow, got %v", err)
	}

	big := Params{BasePrice: math.MaxUint64, SlippageNum: 90, SlippageDen: 100}
	if _, err := big.Price(500_000, 1_000_000); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("huge base price: expected ErrMathOverflow, got %v", err)
	}
}

func TestTokensForPayment(t *testing.T) {
	tests := []struct {
		name     string
		payment  uint64
		price    uint64
		decimals uint8
		want     uint64
		wantErr  error
	}{
		{"exact one token", 1_000_000, 1_000_000, 9, 1_000_000_000, nil},
		{"two and change floors to two", 2_500_000, 1_000_000, 9, 2_000_000_000, nil},
		{"zero decimals", 3_000_000, 1_000_000, 0, 3, nil},
		{"below one token", 999_999, 1_000_000, 9, 0, ErrZeroQuantity},
		{"zero payment", 0, 1_000_000, 9, 0, ErrZeroQuantity},
		{"scale overflow", math.MaxUint64, 1, 9, 0, ErrMathOverflow},
		{"zero price", 100, 0, 9, 0, ErrMathOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokensForPayment(tt.payment, tt.price, tt.decimals)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPaymentForTokens(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name     string
		units    uint64
		price    uint64
		decimals uint8
		want     uint64
		wantErr  error
	}{
		// One whole token at price 1_000_000 with 90/100 slippage.
		{"one token", 1_000_000_000, 1_000_000, 9, 900_000, nil},
		{"two tokens", 2_000_000_000, 1_000_000, 9, 1_800_000, nil},
		{"partial token contributes nothing", 2_500_000_000, 1_000_000, 9, 1_800_000, nil},
		{"below one token", 999_999_999, 1_000_000, 9, 0, ErrZeroQuantity},
		{"zero units", 0, 1_000_000, 9, 0, ErrZeroQuantity},
		{"zero price floors to zero", 1_000_000_000, 0, 9, 0, ErrZeroQuantity},
		{"gross overflow", math.MaxUint64, math.MaxUint64, 0, 0, ErrMathOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.PaymentForTokens(tt.units, tt.price, tt.decimals)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoundTripFriction(t *testing.T) {
	// Buying then immediately selling back at the same price must return
	// strictly less than was paid, for any slippage below 100%.
	p := DefaultParams()
	const price = 1_000_000
	const decimals = 9

	payments := []uint64{1_000_000, 2_500_000, 10_000_000, 999_000_001}
	for _, payment := range payments {
		units, err := TokensForPayment(payment, price, decimals)
		if err != nil {
			t.Fatalf("TokensForPayment(%d) failed: %v", payment, err)
		}
		back, err := p.PaymentForTokens(units, price, decimals)
		if err != nil {
			t.Fatalf("PaymentForTokens(%d) failed: %v", units, err)
		}
		if back >= payment {
			t.Errorf("round trip of %d returned %d, expected strictly less", payment, back)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"no slippage", Params{BasePrice: 1, SlippageNum: 100, SlippageDen: 100}, false},
		{"zero base price", Params{BasePrice: 0, SlippageNum: 90, SlippageDen: 100}, true},
		{"zero denominator", Params{BasePrice: 1, SlippageNum: 90, SlippageDen: 0}, true},
		{"numerator above denominator", Params{BasePrice: 1, SlippageNum: 101, SlippageDen: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
