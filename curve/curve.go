// Package curve implements the bonding-curve pricing and conversion rules.
//
// All functions are pure: they take amounts in, return amounts out, and touch
// no state. All arithmetic is exact unsigned integer math with explicit
// overflow checks — a computation that would wrap fails with ErrMathOverflow
// instead of producing a silently wrong amount.
//
// The pricing rule is piecewise linear in issued supply:
//
//	supplyRatioPct = floor(totalIssued * 100 / maxSupply)
//	price          = floor(basePrice * (100 + supplyRatioPct) / 100)
//
// so the unit price walks from basePrice at zero issuance to 2*basePrice at
// full issuance, stepping once per whole percentage point of supply issued.
package curve

import (
	"errors"

	"github.com/xraph/launchpad/types"
)

// Conversion and pricing errors.
var (
	// ErrMathOverflow is returned when any intermediate computation would
	// exceed uint64. The operation must be rejected, never wrapped.
	ErrMathOverflow = errors.New("curve: math overflow")

	// ErrZeroQuantity is returned when a conversion floors to zero: the
	// payment is too small to buy a single whole token, or the token amount
	// is too small to yield any payout.
	ErrZeroQuantity = errors.New("curve: conversion yields zero quantity")
)

// Default curve parameters, matching the canonical deployment.
const (
	DefaultBasePrice   uint64 = 1_000_000
	DefaultSlippageNum uint64 = 90
	DefaultSlippageDen uint64 = 100
)

// Params configures the curve for one engine instance.
type Params struct {
	// BasePrice is the unit price at zero issuance, in base currency units
	// per whole token.
	BasePrice uint64

	// SlippageNum/SlippageDen scale sell proceeds below the quoted price.
	// The default 90/100 means sellers receive 90% of the spot valuation.
	SlippageNum uint64
	SlippageDen uint64
}

// DefaultParams returns the canonical parameters: base price 1_000_000 and
// 90/100 sell slippage.
func DefaultParams() Params {
	return Params{
		BasePrice:   DefaultBasePrice,
		SlippageNum: DefaultSlippageNum,
		SlippageDen: DefaultSlippageDen,
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.BasePrice == 0 {
		return errors.New("curve: base price must be positive")
	}
	if p.SlippageDen == 0 {
		return errors.New("curve: slippage denominator must be positive")
	}
	if p.SlippageNum > p.SlippageDen {
		return errors.New("curve: slippage numerator exceeds denominator")
	}
	return nil
}

// Price returns the unit price for the given issuance level. maxSupply must
// be positive; totalIssued at or beyond maxSupply prices at the top of the
// curve.
func (p Params) Price(totalIssued, maxSupply uint64) (uint64, error) {
	if maxSupply == 0 {
		return 0, ErrMathOverflow
	}

	scaled, err := types.CheckedMul(totalIssued, 100)
	if err != nil {
		return 0, ErrMathOverflow
	}
	ratioPct := scaled / maxSupply

	multiplierPct, err := types.CheckedAdd(100, ratioPct)
	if err != nil {
		return 0, ErrMathOverflow
	}

	raised, err := types.CheckedMul(p.BasePrice, multiplierPct)
	if err != nil {
		return 0, ErrMathOverflow
	}

	return raised / 100, nil
}

// TokensForPayment converts a currency payment into token base units at the
// given unit price: floor(payment/price) whole tokens, scaled by
// 10^decimals. Fails with ErrZeroQuantity when the payment buys less than
// one whole token.
func TokensForPayment(payment, price uint64, decimals uint8) (uint64, error) {
	if price == 0 {
		return 0, ErrMathOverflow
	}

	whole := payment / price
	if whole == 0 {
		return 0, ErrZeroQuantity
	}

	scale, err := types.Pow10(decimals)
	if err != nil {
		return 0, ErrMathOverflow
	}

	units, err := types.CheckedMul(whole, scale)
	if err != nil {
		return 0, ErrMathOverflow
	}

	return units, nil
}

// PaymentForTokens converts token base units into sale proceeds at the given
// unit price, applying the configured slippage:
// floor(floor(units/10^decimals) * price * slipNum / slipDen). Partial tokens
// below one whole unit contribute nothing. Fails with ErrZeroQuantity when
// the proceeds floor to zero.
func (p Params) PaymentForTokens(units, price uint64, decimals uint8) (uint64, error) {
	scale, err := types.Pow10(decimals)
	if err != nil {
		return 0, ErrMathOverflow
	}

	whole := units / scale
	if whole == 0 {
		return 0, ErrZeroQuantity
	}

	gross, err := types.CheckedMul(whole, price)
	if err != nil {
		return 0, ErrMathOverflow
	}

	discounted, err := types.CheckedMul(gross, p.SlippageNum)
	if err != nil {
		return 0, ErrMathOverflow
	}
	if p.SlippageDen == 0 {
		return 0, ErrMathOverflow
	}
	payout := discounted / p.SlippageDen

	if payout == 0 {
		return 0, ErrZeroQuantity
	}

	return payout, nil
}
