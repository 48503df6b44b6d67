package errors

import (
	"errors"
	"net/http"
)

// BaseError carries the http status a failure should surface with plus a
// machine-readable reason code so callers can render a specific message.
type BaseError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *BaseError) Error() string {
	return e.Message
}

// SeatsUnavailableError is a conflict that also reports which seats lost the
// race so the caller can re-select.
type SeatsUnavailableError struct {
	BaseError
	ConflictingSeats []string `json:"conflicting_seats"`
}

func BadRequest(message string) error {
	return &BaseError{Code: http.StatusBadRequest, Reason: "bad_request", Message: message}
}

func UnauthorizedError(message string) error {
	return &BaseError{Code: http.StatusUnauthorized, Reason: "unauthorized", Message: message}
}

func NotFound(message string) error {
	return &BaseError{Code: http.StatusNotFound, Reason: "not_found", Message: message}
}

func Conflict(reason, message string) error {
	return &BaseError{Code: http.StatusConflict, Reason: reason, Message: message}
}

// SeatsUnavailable is returned when tryHold loses the race for one or more
// seats. No state was mutated.
func SeatsUnavailable(seats []string) error {
	return &SeatsUnavailableError{
		BaseError:        BaseError{Code: http.StatusConflict, Reason: "seats_unavailable", Message: "one or more seats are no longer available"},
		ConflictingSeats: seats,
	}
}

// StateConflict is returned when a seat transition preconditions on a hold
// that is no longer owned by the booking.
func StateConflict(message string) error {
	return Conflict("state_conflict", message)
}

// InvalidTransition is returned by the booking store when a status change is
// not in the legal transition table.
func InvalidTransition(message string) error {
	return Conflict("invalid_transition", message)
}

// PaymentDeclined is a terminal provider rejection. Never retried.
func PaymentDeclined(message string) error {
	return &BaseError{Code: http.StatusPaymentRequired, Reason: "payment_declined", Message: message}
}

// ServiceUnavailable marks transient infrastructure failures eligible for
// retry under the backoff policy.
func ServiceUnavailable(message string) error {
	return &BaseError{Code: http.StatusServiceUnavailable, Reason: "transient", Message: message}
}

func InternalServerError(message string) error {
	return &BaseError{Code: http.StatusInternalServerError, Reason: "internal", Message: message}
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code == http.StatusServiceUnavailable
	}
	return false
}

// IsConflict reports whether err is a conflict-class failure (seats taken,
// state conflict, invalid transition). Conflicts are never retried.
func IsConflict(err error) bool {
	var seats *SeatsUnavailableError
	if errors.As(err, &seats) {
		return true
	}
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code == http.StatusConflict
	}
	return false
}

func IsNotFound(err error) bool {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code == http.StatusNotFound
	}
	return false
}

func IsPaymentDeclined(err error) bool {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code == http.StatusPaymentRequired
	}
	return false
}
