// Package types provides common types used across Launchpad.
package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a checked arithmetic operation would wrap.
var ErrOverflow = errors.New("types: integer overflow")

// All amounts in Launchpad are unsigned integers in the smallest unit:
// currency amounts in base currency units (lamport-scale), token amounts in
// base token units (whole tokens scaled by 10^decimals). No floating point
// anywhere. Every operation that could wrap goes through a checked helper.

// CheckedAdd returns a+b, or ErrOverflow if the sum wraps.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// CheckedSub returns a-b, or ErrOverflow if b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// CheckedMul returns a*b, or ErrOverflow if the product wraps.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckedDiv returns a/b (floor), or ErrOverflow on division by zero.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrOverflow
	}
	return a / b, nil
}

// Pow10 returns 10^n, or ErrOverflow when 10^n does not fit in uint64 (n > 19).
func Pow10(n uint8) (uint64, error) {
	result := uint64(1)
	for i := uint8(0); i < n; i++ {
		var err error
		result, err = CheckedMul(result, 10)
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

// FormatUnits renders a base-unit amount as a decimal string with the given
// number of decimals. FormatUnits(1_500_000_000, 9) == "1.500000000".
func FormatUnits(amount uint64, decimals uint8) string {
	scale, err := Pow10(decimals)
	if err != nil || scale == 1 {
		return fmt.Sprintf("%d", amount)
	}

	whole := amount / scale
	frac := amount % scale

	return fmt.Sprintf("%d.%0*d", whole, decimals, frac)
}
