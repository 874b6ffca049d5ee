package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domain string
		api    string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeConflict},
		{"RECIPE_NOT_FOUND", ErrCodeRecipeNotFound},
		{"INVALID_ORDER_STATE", ErrCodeInvalidOrderState},
		{"NEGATIVE_STOCK", ErrCodeNegativeStock},
		{"IDENTIFIER_EXHAUSTED", ErrCodeIdentifierExhausted},
		{"TOOL_CHECKED_OUT", ErrCodeConflict},
		{"NOT_A_TOOL", "NOT_A_TOOL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.api, NormalizeErrorCode(tt.domain), tt.domain)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	// Correctable precondition failures are client errors.
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeRecipeNotFound))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidOrderState))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeNegativeStock))

	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConflict))
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeLockTimeout))

	// Unmapped codes are treated as business rule violations.
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("NOT_A_TOOL"))
}

func TestListRequestToFilter(t *testing.T) {
	filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "rose"}.ToFilter()
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 50, filter.PageSize)
	assert.Equal(t, "name", filter.OrderBy)
	assert.Equal(t, "asc", filter.OrderDir)
	assert.Equal(t, "rose", filter.Search)

	// Zero values fall back to the defaults.
	def := ListRequest{}.ToFilter()
	assert.Equal(t, 1, def.Page)
	assert.Equal(t, 20, def.PageSize)
	assert.Equal(t, "created_at", def.OrderBy)
}
