package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewUnauthorized("invalid credentials"))
	de := ToDomainError(wrapped)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "invalid payload", de.Message)

	de = ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("boom")
	de = ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)

	assert.Nil(t, ToDomainError(nil))
}
