package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error keeps status", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewForbidden("admin access required"))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
		assert.Equal(t, "FORBIDDEN", de.Code)
	})

	t.Run("fiber error", func(t *testing.T) {
		de := ToDomainError(fiber.NewError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"))
		assert.Equal(t, http.StatusRequestEntityTooLarge, de.HTTPStatus)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", de.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		cause := errors.New("disk on fire")
		de := ToDomainError(cause)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.Equal(t, "internal server error", de.Message)
		assert.ErrorIs(t, de, cause)
	})
}

func TestNewInternalErrorf(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalErrorf(cause, "error verifying admin status")

	de := ToDomainError(err)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "error verifying admin status", de.Message)
	assert.Equal(t, "error verifying admin status: connection refused", err.Error())
}
