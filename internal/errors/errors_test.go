package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardErrorMessage(t *testing.T) {
	err := NewIOError(ErrCodeFileNotFound, "cannot read catalog", fs.ErrNotExist).
		WithFile("projects.yml").
		WithProject("Acme")

	msg := err.Error()
	assert.Contains(t, msg, "[ERR_FILE_NOT_FOUND]")
	assert.Contains(t, msg, "project:Acme")
	assert.Contains(t, msg, "projects.yml")
	assert.Contains(t, msg, "cannot read catalog")
	assert.Contains(t, msg, fs.ErrNotExist.Error())
}

func TestCardErrorWithoutOptionalParts(t *testing.T) {
	err := NewValidationError("", "name is required")
	assert.Equal(t, "name is required", err.Error())
}

func TestCardErrorUnwrap(t *testing.T) {
	err := NewAssetError(ErrCodeAssetNotFound, "missing image", fs.ErrNotExist)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, fs.ErrNotExist, errors.Unwrap(err))
}

func TestCardErrorIs(t *testing.T) {
	err := fmt.Errorf("render: %w", NewAssetError(ErrCodeAssetNotFound, "missing image", nil))

	assert.True(t, errors.Is(err, &CardError{Type: ErrorTypeAsset, Code: ErrCodeAssetNotFound}))
	assert.False(t, errors.Is(err, &CardError{Type: ErrorTypeIO, Code: ErrCodeAssetNotFound}))
}

func TestWithContext(t *testing.T) {
	err := NewConfigError(ErrCodeInvalidConfig, "bad port").
		WithContext("port", 70000).
		WithContext("source", "flag")

	require.Len(t, err.Context, 2)
	assert.Equal(t, 70000, err.Context["port"])
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorTypeIO, ErrCodeDecodeFailed, "decode"))

	cause := errors.New("boom")
	err := WrapError(cause, ErrorTypeNetwork, ErrCodeServerStart, "listen")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsType(err, ErrorTypeNetwork))
	assert.False(t, IsType(err, ErrorTypeIO))
	assert.False(t, IsType(cause, ErrorTypeNetwork))
}
