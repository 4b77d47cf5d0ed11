package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError("Rice 5kg", 3, 1)

	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Contains(t, err.Message, "Rice 5kg")
	assert.Contains(t, err.Message, "requested 3")
	assert.Contains(t, err.Message, "available 1")
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "name", Message: "name is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
	assert.Equal(t, "name", err.Errors[0].Field)
}

func TestGetAppErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")

	appErr := GetAppError(plain)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "boom", appErr.Message)
}

func TestGetAppErrorUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := NewNotFoundError("Bill")
	wrapped := fmt.Errorf("loading: %w", inner)

	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusNotFound, GetAppError(wrapped).Code)
}

func TestNewConsistencyErrorIsRetryable(t *testing.T) {
	err := NewConsistencyError("storage temporarily unavailable")
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
}
