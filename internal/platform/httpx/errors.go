package httpx

import (
	"errors"
	"net/http"

	"github.com/dukapos/dukapos/internal/shared"
)

// RespondError maps ledger domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicateKey):
		Problem(w, http.StatusConflict, "Duplicate", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInsufficientStock):
		Problem(w, http.StatusConflict, "Insufficient Stock", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidQuantity),
		errors.Is(err, shared.ErrInvalidAmount),
		errors.Is(err, shared.ErrInvalidPhone),
		errors.Is(err, shared.ErrMissingCustomer):
		Problem(w, http.StatusBadRequest, "Validation Failed", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrMessagingUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Messaging Unavailable", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrMessagingRejected):
		Problem(w, http.StatusBadGateway, "Messaging Rejected", shared.UserSafeMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
