package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewValidationError("bad payload", map[string]any{"name": "required"})

	got := ToDomainError(original)
	require.NotNil(t, got)
	assert.Equal(t, "VALIDATION_FAILED", got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
}

func TestToDomainErrorUnwrapsWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("save department: %w", NewConflict("duplicate", nil))

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "CONFLICT", got.Code)
}

func TestToDomainErrorMapsStoreNotFound(t *testing.T) {
	wrapped := fmt.Errorf("get collaborator: %w", docstore.ErrNotFound)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	got := ToDomainError(errors.New("connection reset"))
	require.NotNil(t, got)
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestIsDependencyError(t *testing.T) {
	blocked := NewDependencyError("department has collaborators", map[string]any{"collaborators": 2})

	assert.True(t, IsDependencyError(blocked))
	assert.True(t, IsDependencyError(fmt.Errorf("delete: %w", blocked)))
	assert.False(t, IsDependencyError(errors.New("other")))

	var domainErr *DomainError
	require.ErrorAs(t, blocked, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}
