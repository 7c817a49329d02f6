package base44_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "structured body",
			status:      404,
			body:        `{"message": "Task not found", "code": "not_found"}`,
			wantMessage: "Task not found",
			wantCode:    "not_found",
		},
		{
			name:        "detail fallback",
			status:      422,
			body:        `{"detail": "title is required"}`,
			wantMessage: "title is required",
		},
		{
			name:        "unparseable body keeps status text",
			status:      502,
			body:        "<html>bad gateway</html>",
			wantMessage: "Bad Gateway",
		},
		{
			name:        "empty body keeps status text",
			status:      401,
			body:        "",
			wantMessage: "Unauthorized",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			apiErr := base44.NewHTTPError(testCase.status, []byte(testCase.body))
			assert.Equal(t, testCase.status, apiErr.Status)
			assert.Equal(t, testCase.wantMessage, apiErr.Message)
			assert.Equal(t, testCase.wantCode, apiErr.Code)
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with status and code", func(t *testing.T) {
		t.Parallel()

		apiErr := base44.NewHTTPError(404, []byte(`{"message": "gone", "code": "not_found"}`))
		assert.Equal(t, "gone (status: 404, code: not_found)", apiErr.Error())
	})

	t.Run("with status only", func(t *testing.T) {
		t.Parallel()

		apiErr := base44.NewHTTPError(500, []byte(`{"message": "boom"}`))
		assert.Equal(t, "boom (status: 500)", apiErr.Error())
	})

	t.Run("transport error includes cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		apiErr := base44.NewTransportError(cause)
		assert.Equal(t, "request failed: connection refused", apiErr.Error())
	})
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	apiErr := base44.NewTransportError(cause)
	require.ErrorIs(t, apiErr, cause)
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	t.Run("IsNotFound", func(t *testing.T) {
		t.Parallel()

		assert.True(t, base44.IsNotFound(base44.NewHTTPError(http.StatusNotFound, nil)))
		assert.False(t, base44.IsNotFound(base44.NewHTTPError(http.StatusBadRequest, nil)))
		assert.False(t, base44.IsNotFound(errors.New("plain")))
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		t.Parallel()

		assert.True(t, base44.IsUnauthorized(base44.NewHTTPError(http.StatusUnauthorized, nil)))
		assert.False(t, base44.IsUnauthorized(base44.NewHTTPError(http.StatusForbidden, nil)))
	})

	t.Run("IsAuthRequired", func(t *testing.T) {
		t.Parallel()

		assert.True(t, base44.IsAuthRequired(base44.NewAuthRequiredError()))
		assert.True(t, base44.IsAuthRequired(base44.ErrNoToken))
		assert.False(t, base44.IsAuthRequired(base44.NewHTTPError(http.StatusUnauthorized, nil)))
	})

	t.Run("IsTransport", func(t *testing.T) {
		t.Parallel()

		assert.True(t, base44.IsTransport(base44.NewTransportError(errors.New("refused"))))
		assert.False(t, base44.IsTransport(base44.NewHTTPError(http.StatusBadGateway, nil)))
		assert.False(t, base44.IsTransport(base44.NewAuthRequiredError()))
	})

	t.Run("classifiers see through wrapping", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("getting Task abc: %w", base44.NewHTTPError(http.StatusNotFound, nil))
		assert.True(t, base44.IsNotFound(wrapped))
	})
}

func TestNewAuthRequiredError(t *testing.T) {
	t.Parallel()

	apiErr := base44.NewAuthRequiredError()
	assert.Equal(t, base44.ErrorCodeAuthRequired, apiErr.Code)
	assert.Zero(t, apiErr.Status)
	require.ErrorIs(t, apiErr, base44.ErrNoToken)
}
