package launchpad

import (
	"errors"
	"fmt"

	"github.com/xraph/launchpad/curve"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("launchpad: not found")
	ErrInvalidInput = errors.New("launchpad: invalid input")

	// Initialization errors
	ErrAlreadyInitialized = errors.New("launchpad: asset already initialized")
	ErrIssuanceNotFound   = errors.New("launchpad: issuance not found")

	// Trading errors
	ErrMaxSupplyExceeded   = errors.New("launchpad: max supply exceeded")
	ErrInsufficientReserve = errors.New("launchpad: insufficient reserve balance")
	ErrUnauthorized        = errors.New("launchpad: unauthorized")

	// Journal errors
	ErrJournalBufferFull = errors.New("launchpad: trade journal buffer full")

	// Store errors
	ErrStoreNotReady     = errors.New("launchpad: store not ready")
	ErrStoreClosed       = errors.New("launchpad: store is closed")
	ErrTransactionFailed = errors.New("launchpad: transaction failed")
	ErrMigrationFailed   = errors.New("launchpad: migration failed")
)

// Conversion errors originate in the curve package; alias them here so
// callers can classify everything through this package.
var (
	ErrMathOverflow = curve.ErrMathOverflow
	ErrZeroQuantity = curve.ErrZeroQuantity
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("launchpad: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrIssuanceNotFound)
}

// IsRecoverable returns true for rejections the caller can resolve by
// adjusting the request — a smaller amount, a different asset — and retrying.
// The issuance state is unchanged after a recoverable rejection.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMaxSupplyExceeded) ||
		errors.Is(err, ErrInsufficientReserve) ||
		errors.Is(err, ErrZeroQuantity) ||
		errors.Is(err, ErrJournalBufferFull)
}

// IsTerminal returns true for failures that no retry of the same request can
// fix: arithmetic overflow, authorization, malformed input.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrMathOverflow) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAlreadyInitialized)
}

// IsRetryable returns true if the error is temporary and the same operation
// can be retried unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
