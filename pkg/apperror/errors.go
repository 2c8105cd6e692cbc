package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Code is stable and machine-checkable so clients can branch on failure kind.
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

// ---- Sale Admission (SALE) ----

func ErrRateLimitExceeded(limit int) *AppError {
	return New("SALE_001", fmt.Sprintf("Requested quantity exceeds mint rate limit of %d", limit), http.StatusUnprocessableEntity)
}

func ErrNotMintable(reason string) *AppError {
	return New("SALE_002", fmt.Sprintf("Sale is not mintable: %s", reason), http.StatusConflict)
}

func ErrNoAllowanceLeft() *AppError {
	return New("SALE_003", "Account has no allowance left", http.StatusUnprocessableEntity)
}

func ErrInsufficientDeposit(required int64) *AppError {
	return New("SALE_004", fmt.Sprintf("Attached value below required deposit of %d", required), http.StatusPaymentRequired)
}

func ErrAllowanceExceeded() *AppError {
	return New("SALE_005", "Requested amount exceeds remaining allowance", http.StatusUnprocessableEntity)
}

func ErrInvalidSale(reason string) *AppError {
	return New("SALE_006", fmt.Sprintf("Invalid sale configuration: %s", reason), http.StatusBadRequest)
}

// ---- Escrow Vault (VAULT) ----

func ErrInvalidDeclaration(reason string) *AppError {
	return New("VAULT_001", fmt.Sprintf("Invalid deposit declaration: %s", reason), http.StatusBadRequest)
}

func ErrAssetMismatch() *AppError {
	return New("VAULT_002", "Deposit does not match a pending declaration", http.StatusConflict)
}

func ErrVaultNotFound() *AppError {
	return New("VAULT_003", "Vault not found", http.StatusNotFound)
}

func ErrVaultIncomplete() *AppError {
	return New("VAULT_004", "Vault has unconfirmed deposits", http.StatusConflict)
}

// ---- Items (ITEM) ----

func ErrItemNotFound() *AppError {
	return New("ITEM_001", "Item not found", http.StatusNotFound)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUnauthorized() *AppError {
	return New("AUTH_004", "Caller is not authorized for this operation", http.StatusForbidden)
}

func ErrInvalidSignature() *AppError {
	return New("AUTH_005", "Invalid notification signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("AUTH_006", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("AUTH_007", "Nonce has already been used", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrTooManyRequests() *AppError {
	return New("RATE_001", "Too many requests", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("SALE_006", message, http.StatusBadRequest)
}
