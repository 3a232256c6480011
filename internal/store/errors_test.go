package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError_ErrorWithoutWrappedError(t *testing.T) {
	storeErr := &StoreError{
		Entity:    "library",
		Operation: "save",
		Message:   "validation failed",
		Err:       nil,
	}

	assert.Equal(t, "library save: validation failed", storeErr.Error())
}

func TestStoreError_ErrorWithWrappedError(t *testing.T) {
	originalErr := errors.New("disk full")
	storeErr := NewStoreError("library", "save", "write error", originalErr)

	assert.Equal(t, "library save: write error: disk full", storeErr.Error())
	assert.Equal(t, originalErr, storeErr.Unwrap())
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("library", "load", cause)

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsStorageError(err))

	var storeErr *StoreError
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
	assert.Equal(t, "load", storeErr.Operation)
}

func TestIsStorageError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil_error", err: nil, expected: false},
		{name: "generic_error", err: errors.New("some error"), expected: false},
		{name: "unavailable", err: ErrStorageUnavailable, expected: true},
		{name: "wrapped_unavailable", err: fmt.Errorf("save: %w", ErrStorageUnavailable), expected: true},
		{name: "transaction_failed", err: ErrTransactionFailed, expected: true},
		{name: "corrupt", err: ErrCorrupt, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsStorageError(tt.err))
		})
	}
}
