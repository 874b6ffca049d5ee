package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrRecipeNotFound      = NewDomainError("RECIPE_NOT_FOUND", "No active recipe configured for container")
	ErrInvalidOrderState   = NewDomainError("INVALID_ORDER_STATE", "Order is not in a receivable state")
	ErrNegativeStock       = NewDomainError("NEGATIVE_STOCK", "Operation would drive stock below zero")
	ErrLockTimeout         = NewDomainError("LOCK_TIMEOUT", "Could not acquire row locks in time")
	ErrIdentifierExhausted = NewDomainError("IDENTIFIER_EXHAUSTED", "Unable to generate a unique item identifier")
)

// InsufficientStockError reports a resource shortfall with the exact numbers,
// so callers can tell the operator how much is missing.
type InsufficientStockError struct {
	Resource  string // e.g. "oil" or a material name
	Required  string
	Available string
	Unit      string
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s: need %s%s, have %s%s",
		e.Resource, e.Required, e.Unit, e.Available, e.Unit)
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(resource, required, available, unit string) *InsufficientStockError {
	return &InsufficientStockError{
		Resource:  resource,
		Required:  required,
		Available: available,
		Unit:      unit,
	}
}
