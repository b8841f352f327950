package shared

import (
	"errors"
)

var (
	// ErrNotFound indicates a referenced product, sale or debt is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a missing or malformed required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateKey indicates a sku or invoice number collision.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInsufficientStock indicates a sale line exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidAmount indicates a non-positive money amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidPhone indicates a phone number outside the E.164-like format.
	ErrInvalidPhone = errors.New("phone must match E.164 format, e.g. +96812345678")
	// ErrMissingCustomer indicates a deferred sale without customer details.
	ErrMissingCustomer = errors.New("customer name and phone required for deferred sale")
	// ErrMessagingUnavailable indicates missing messaging provider credentials.
	ErrMessagingUnavailable = errors.New("messaging provider not configured")
	// ErrMessagingRejected indicates the messaging provider refused the message.
	ErrMessagingRejected = errors.New("messaging provider rejected the message")
)

var knownErrors = []error{
	ErrNotFound,
	ErrInvalidInput,
	ErrDuplicateKey,
	ErrInsufficientStock,
	ErrInvalidQuantity,
	ErrInvalidAmount,
	ErrInvalidPhone,
	ErrMissingCustomer,
	ErrMessagingUnavailable,
	ErrMessagingRejected,
}

// UserSafeMessage returns err's message when it belongs to the domain
// taxonomy, otherwise a generic message so internal details never leak.
func UserSafeMessage(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "something went wrong, please try again"
}
