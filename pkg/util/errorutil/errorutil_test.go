package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	require.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("handler: %w", NewNotFound("post", nil))
	de := ToDomainError(wrapped)
	require.Equal(t, "NOT_FOUND", de.Code)
	require.Equal(t, "post not found", de.Message)
	require.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusMethodNotAllowed, "nope"))
	require.Equal(t, "METHOD_NOT_ALLOWED", de.Code)
	require.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)

	cause := errors.New("boom")
	de = ToDomainError(cause)
	require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	require.ErrorIs(t, de, cause)
}

func TestInternalErrorHidesCause(t *testing.T) {
	de := ToDomainError(NewInternalError(errors.New("dial tcp: refused")))
	require.Equal(t, "internal server error", de.Message)
	require.Contains(t, de.Error(), "refused")
}
