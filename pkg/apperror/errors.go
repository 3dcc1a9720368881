package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Marketplace Preconditions (MKT) ----
// All of these signal precondition violations, not transient failures.
// The enclosing operation aborts with no partial state change.

func ErrNotListed() *AppError {
	return New("MKT_001", "Asset is not listed for sale", http.StatusNotFound)
}

func ErrAlreadyListed() *AppError {
	return New("MKT_002", "Asset is already listed for sale", http.StatusConflict)
}

func ErrNotOwner() *AppError {
	return New("MKT_003", "Caller does not own this asset or listing", http.StatusForbidden)
}

func ErrPriceMustBeAboveZero() *AppError {
	return New("MKT_004", "Listing price must be above zero", http.StatusBadRequest)
}

func ErrNotApprovedForMarketplace() *AppError {
	return New("MKT_005", "Asset is not approved for marketplace transfer", http.StatusUnprocessableEntity)
}

func ErrPriceNotMet() *AppError {
	return New("MKT_006", "Payment does not meet the listing price", http.StatusPaymentRequired)
}

func ErrNoProceeds() *AppError {
	return New("MKT_007", "No proceeds available to withdraw", http.StatusBadRequest)
}

func ErrExternalTransferFailed(err error) *AppError {
	return Wrap("MKT_008", "External transfer failed", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("MKT_000", message, http.StatusBadRequest)
}
