package dto

import "net/http"

// API error codes. Domain error codes are normalized into these before
// they reach the wire.
const (
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeRecipeNotFound      = "ERR_RECIPE_NOT_FOUND"
	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidOrderState   = "ERR_INVALID_ORDER_STATE"
	ErrCodeNegativeStock       = "ERR_NEGATIVE_STOCK"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeLockTimeout         = "ERR_LOCK_TIMEOUT"
	ErrCodeIdentifierExhausted = "ERR_IDENTIFIER_EXHAUSTED"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes. Failed
// business preconditions the client can correct and resubmit, such as a
// stock shortfall, a missing active recipe or an order received twice,
// answer 400 like any other bad request.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeRecipeNotFound:      http.StatusBadRequest,
	ErrCodeInsufficientStock:   http.StatusBadRequest,
	ErrCodeInvalidOrderState:   http.StatusBadRequest,
	ErrCodeNegativeStock:       http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusBadRequest,
	ErrCodeLockTimeout:         http.StatusServiceUnavailable,
	ErrCodeIdentifierExhausted: http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for a code. Codes without a mapping
// are business rule violations and answer 400.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// domainCodeMapping translates domain error codes into API codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeConflict,
	"INVALID_INPUT":        ErrCodeValidation,
	"INVALID_SETTINGS":     ErrCodeValidation,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"RECIPE_NOT_FOUND":     ErrCodeRecipeNotFound,
	"INVALID_ORDER_STATE":  ErrCodeInvalidOrderState,
	"NEGATIVE_STOCK":       ErrCodeNegativeStock,
	"LOCK_TIMEOUT":         ErrCodeLockTimeout,
	"IDENTIFIER_EXHAUSTED": ErrCodeIdentifierExhausted,
	"TOOL_CHECKED_OUT":     ErrCodeConflict,
}

// NormalizeErrorCode maps a domain error code to its API code. Codes
// without a mapping pass through unchanged.
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainCodeMapping[code]; ok {
		return normalized
	}
	return code
}
