package vending

import "errors"

// Purchase validation outcomes. These are ordinary business results
// reported to the caller; they never mutate state.
var (
	ErrInvalidLocation   = errors.New("invalid location")
	ErrNoProduct         = errors.New("no product")
	ErrSoldOut           = errors.New("item sold out")
	ErrItemInactive      = errors.New("item inactive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrItemNotFound      = errors.New("item not found")
)

// Restocking session outcomes.
var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrSessionActive      = errors.New("restock session already active for machine")
	ErrNoSession          = errors.New("no restock session for machine")
	ErrSessionClosed      = errors.New("restock session closed")
)

// ErrLayoutMismatch signals a broken invariant: a machine whose current
// and staging layouts disagree on dimensions or depth. It is not a
// business outcome; callers should treat it as unrecoverable.
var ErrLayoutMismatch = errors.New("current and staging layouts differ in shape")

// IsValidation reports whether err is one of the expected business
// outcomes, as opposed to a persistence or invariant failure.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidLocation, ErrNoProduct, ErrSoldOut, ErrItemInactive,
		ErrInsufficientFunds, ErrItemNotFound, ErrUnknownInstruction,
		ErrSessionActive, ErrNoSession, ErrSessionClosed,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
