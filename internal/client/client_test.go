package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/base44-io/base44-client/internal/client"
	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a client against an httptest server.
func newTestClient(t *testing.T, handler http.Handler, configure func(*base44.Config)) (*client.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &base44.Config{
		AppID:     "app-1",
		ServerURL: server.URL,
	}

	if configure != nil {
		configure(config)
	}

	composed, err := client.New(config)
	require.NoError(t, err)

	return composed, server
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(nil)
		require.ErrorIs(t, err, base44.ErrConfigRequired)
	})

	t.Run("missing app ID", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&base44.Config{})
		require.ErrorIs(t, err, base44.ErrAppIDRequired)
	})

	t.Run("config token is used immediately", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer config-tok", request.Header.Get("Authorization"))
			_, _ = writer.Write([]byte(`[]`))
		}), func(config *base44.Config) {
			config.Token = "config-tok"
		})

		_, err := composed.Entity("Task").List(context.Background(), nil)
		require.NoError(t, err)
	})

	t.Run("token captured from environment URL", func(t *testing.T) {
		t.Parallel()

		location := "https://app.example.com/page?access_token=url-tok"

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer url-tok", request.Header.Get("Authorization"))
			_, _ = writer.Write([]byte(`[]`))
		}), func(config *base44.Config) {
			config.Environment = &base44.Environment{
				CurrentURL: func() string { return location },
				RewriteURL: func(url string) error {
					location = url

					return nil
				},
				Storage: base44.NewMemoryStorage(),
			}
		})

		_, err := composed.Entity("Task").List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "https://app.example.com/page", location)
	})

	t.Run("DisableAutoAuth skips URL capture", func(t *testing.T) {
		t.Parallel()

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			_, _ = writer.Write([]byte(`[]`))
		}), func(config *base44.Config) {
			config.DisableAutoAuth = true
			config.Environment = &base44.Environment{
				CurrentURL: func() string { return "https://app.example.com/?access_token=url-tok" },
				Storage:    base44.NewMemoryStorage(),
			}
		})

		_, err := composed.Entity("Task").List(context.Background(), nil)
		require.NoError(t, err)
	})
}

func TestClient_Entity(t *testing.T) {
	t.Parallel()

	composed, _ := newTestClient(t, http.NotFoundHandler(), nil)

	// Handles are cached per name, synthesized for any name.
	first := composed.Entity("Task")
	assert.Same(t, first, composed.Entity("Task"))
	assert.NotSame(t, first, composed.Entity("Project"))
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("configured chain observes requests and responses", func(t *testing.T) {
		t.Parallel()

		chain := base44.NewInterceptorChain()
		chain.AddRequestInterceptor(base44.HeaderInterceptor(map[string]string{
			"X-Request-Source": "worker",
		}))

		var gotStatus int

		chain.AddResponseInterceptor(func(ctx context.Context, req *base44.Request, resp *base44.Response) error {
			gotStatus = resp.StatusCode

			return nil
		})

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "worker", request.Header.Get("X-Request-Source"))
			_, _ = writer.Write([]byte(`[]`))
		}), func(config *base44.Config) {
			config.Interceptors = chain
		})

		_, err := composed.Entity("Task").List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, gotStatus)
	})

	t.Run("request interceptor rejection aborts before the network", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("rejected")

		chain := base44.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *base44.Request) error {
			return boom
		})

		var calls atomic.Int32

		composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
		}), func(config *base44.Config) {
			config.Interceptors = chain
		})

		_, err := composed.Entity("Task").List(context.Background(), nil)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestClient_SetToken(t *testing.T) {
	t.Parallel()

	var got []string

	composed, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		got = append(got, request.Header.Get("Authorization"))
		_, _ = writer.Write([]byte(`[]`))
	}), nil)

	_, err := composed.Entity("Task").List(context.Background(), nil)
	require.NoError(t, err)

	composed.SetToken("late-tok")

	_, err = composed.Entity("Task").List(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer late-tok"}, got)
}

func TestClient_Config(t *testing.T) {
	t.Parallel()

	composed, server := newTestClient(t, http.NotFoundHandler(), nil)

	config := composed.Config()
	assert.Equal(t, "app-1", config.AppID)
	assert.Equal(t, server.URL, config.ServerURL)

	// The snapshot is detached from the client.
	config.AppID = "mutated"
	assert.Equal(t, "app-1", composed.Config().AppID)
}
