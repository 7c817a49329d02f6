package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationsClient_Invoke(t *testing.T) {
	t.Parallel()

	t.Run("posts payload to the scoped path", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "/api/apps/app-1/integrations/Core/SendEmail", request.URL.Path)

			var payload map[string]interface{}

			require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
			assert.Equal(t, "a@b.c", payload["to"])

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"sent": true})
		}), nil)

		result, err := composed.Integrations().Invoke(context.Background(), "Core", "SendEmail", map[string]interface{}{
			"to": "a@b.c",
		})
		require.NoError(t, err)

		resultMap, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, resultMap["sent"])
	})

	t.Run("arbitrary package and endpoint names", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/apps/app-1/integrations/my-billing/charge%20card", request.URL.EscapedPath())
			writer.WriteHeader(http.StatusOK)
		}), nil)

		_, err := composed.Integrations().Invoke(context.Background(), "my-billing", "charge card", nil)
		require.NoError(t, err)
	})

	t.Run("empty response body resolves to nil", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}), nil)

		result, err := composed.Integrations().Invoke(context.Background(), "Core", "Ping", nil)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("backend error surfaces status", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "missing recipient"})
		}), nil)

		_, err := composed.Integrations().Invoke(context.Background(), "Core", "SendEmail", nil)
		require.Error(t, err)

		var apiErr *base44.Error

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})
}

func TestIntegrationsClient_Handles(t *testing.T) {
	t.Parallel()

	t.Run("handles are cached per name", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.NotFoundHandler(), nil)

		integrations := composed.Integrations()
		pkg := integrations.Package("Core")
		assert.Same(t, pkg, integrations.Package("Core"))
		assert.NotSame(t, pkg, integrations.Package("Billing"))

		endpoint := pkg.Endpoint("SendEmail")
		assert.Same(t, endpoint, pkg.Endpoint("SendEmail"))
	})

	t.Run("endpoint handle invokes through the scoped path", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/apps/app-1/integrations/Core/InvokeLLM", request.URL.Path)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"answer": "42"})
		}), nil)

		endpoint := composed.Integrations().Package("Core").Endpoint("InvokeLLM")

		result, err := endpoint.Invoke(context.Background(), map[string]interface{}{"prompt": "?"})
		require.NoError(t, err)

		resultMap, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "42", resultMap["answer"])
	})
}
