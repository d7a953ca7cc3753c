package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "UNPROCESSABLE_ENTITY", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnprocessableEntity)))
	assert.Equal(t, "METHOD_NOT_ALLOWED", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Validation failed", []FieldError{{Field: "age", Error: "must be an integer"}})

	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", err.Code)
	assert.True(t, err.Override)
	assert.Len(t, err.Errors, 1)
	assert.Equal(t, "Validation failed", err.Error())
}

func TestInternalServerErrorIsGeneric(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, "Internal Server Error", err.Message)
}

func TestHTTPErrorMatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("Page not found"))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
}
