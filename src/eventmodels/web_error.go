package eventmodels

import (
	"errors"
	"net/http"
)

// WebError pairs an engine error with the HTTP status it is reported under.
type WebError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *WebError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}

	return e.Message
}

func (e *WebError) Unwrap() error {
	return e.Cause
}

func NewWebError(statusCode int, message string, cause error) *WebError {
	return &WebError{
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

var badRequestErrors = []error{
	ErrInvalidExpiry,
	ErrInvalidTimeOfDay,
	ErrInvalidTimezone,
	ErrAmountBelowMinimum,
	ErrInvalidLimits,
	ErrInvalidSpot,
	ErrNonFiniteInput,
	ErrInvalidQuoteKind,
	ErrInvalidOptionKind,
	ErrInvalidSide,
	ErrInvalidPayoutCcy,
	ErrInvalidCounterParty,
	ErrIncompletePair,
}

// ToWebError classifies err by the sentinel it wraps. Unclassified errors are reported as 500.
func ToWebError(message string, err error) *WebError {
	var webErr *WebError
	if errors.As(err, &webErr) {
		return webErr
	}

	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrGroupNotFound):
		return NewWebError(http.StatusNotFound, message, err)
	case errors.Is(err, ErrSpecNotFound):
		return NewWebError(http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, ErrDuplicateGroup):
		return NewWebError(http.StatusConflict, message, err)
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return NewWebError(http.StatusBadRequest, message, err)
		}
	}

	return NewWebError(http.StatusInternalServerError, message, err)
}
