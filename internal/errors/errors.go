package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict  = new(ErrCodeVersionConflict, "version conflict")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
)

// Pricing and commission errors. Each one is marked together with its generic
// class above, so callers can match either the precise reason or the class.
var (
	ErrPricingParse           = new(ErrCodePricingParse, "pricing document could not be parsed")
	ErrNoPriceAvailable       = new(ErrCodeNoPriceAvailable, "no price available")
	ErrInvalidPartySize       = new(ErrCodeInvalidPartySize, "invalid party size")
	ErrInvalidAmount          = new(ErrCodeInvalidAmount, "invalid amount")
	ErrExceedsRemaining       = new(ErrCodeExceedsRemaining, "amount exceeds remaining balance")
	ErrConcurrentModification = new(ErrCodeConcurrentModification, "concurrent modification")
	ErrLedgerNotFound         = new(ErrCodeLedgerNotFound, "ledger not found")
)

// maps errors to http status codes, most specific first
var statusCodes = []struct {
	err    error
	status int
}{
	{ErrNoPriceAvailable, http.StatusUnprocessableEntity},
	{ErrConcurrentModification, http.StatusConflict},
	{ErrLedgerNotFound, http.StatusNotFound},
	{ErrExceedsRemaining, http.StatusBadRequest},
	{ErrInvalidAmount, http.StatusBadRequest},
	{ErrInvalidPartySize, http.StatusBadRequest},
	{ErrPricingParse, http.StatusBadRequest},
	{ErrNotFound, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrVersionConflict, http.StatusConflict},
	{ErrValidation, http.StatusBadRequest},
	{ErrInvalidOperation, http.StatusBadRequest},
	{ErrPermissionDenied, http.StatusForbidden},
	{ErrDatabase, http.StatusInternalServerError},
	{ErrSystem, http.StatusInternalServerError},
}

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeVersionConflict  = "version_conflict"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodePricingParse           = "pricing_parse_error"
	ErrCodeNoPriceAvailable       = "no_price_available"
	ErrCodeInvalidPartySize       = "invalid_party_size"
	ErrCodeInvalidAmount          = "invalid_amount"
	ErrCodeExceedsRemaining       = "exceeds_remaining"
	ErrCodeConcurrentModification = "concurrent_modification"
	ErrCodeLedgerNotFound         = "ledger_not_found"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsPricingParse(err error) bool {
	return errors.Is(err, ErrPricingParse)
}

func IsNoPriceAvailable(err error) bool {
	return errors.Is(err, ErrNoPriceAvailable)
}

func IsInvalidPartySize(err error) bool {
	return errors.Is(err, ErrInvalidPartySize)
}

func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

func IsExceedsRemaining(err error) bool {
	return errors.Is(err, ErrExceedsRemaining)
}

func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

func IsLedgerNotFound(err error) bool {
	return errors.Is(err, ErrLedgerNotFound)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}

// CodeFromErr returns the code of the most specific sentinel err is marked with
func CodeFromErr(err error) string {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			if ie, ok := sc.err.(*InternalError); ok {
				return ie.Code
			}
		}
	}
	return ErrCodeSystemError
}
