package launchpad

import (
	"github.com/xraph/launchpad/curve"
	"github.com/xraph/launchpad/types"
)

// Re-export common types for convenience so users don't have to import the
// subpackages.

// Entity is re-exported from the types package.
type Entity = types.Entity

// CurveParams is re-exported from the curve package.
type CurveParams = curve.Params

// Re-export constructors and helpers.
var (
	NewEntity          = types.NewEntity
	DefaultCurveParams = curve.DefaultParams

	CheckedAdd = types.CheckedAdd
	CheckedSub = types.CheckedSub
	CheckedMul = types.CheckedMul
)
