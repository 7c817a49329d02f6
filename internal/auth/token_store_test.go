package auth_test

import (
	"context"
	"testing"

	"github.com/base44-io/base44-client/internal/auth"
	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowser simulates a host with a current URL that can be rewritten.
type fakeBrowser struct {
	location string
	rewrites []string
}

func (b *fakeBrowser) environment(storage base44.TokenStorage) *base44.Environment {
	return &base44.Environment{
		CurrentURL: func() string { return b.location },
		RewriteURL: func(url string) error {
			b.location = url
			b.rewrites = append(b.rewrites, url)

			return nil
		},
		Storage: storage,
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestTokenStore_InitFromEnvironment(t *testing.T) {
	t.Parallel()
	t.Run("captures token from URL and strips it", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{location: "https://app.example.com/page?access_token=tok-123&tab=2"}
		storage := base44.NewMemoryStorage()
		store := auth.NewTokenStore(browser.environment(storage))

		token, err := store.InitFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)

		// The URL no longer carries the token, other params survive.
		assert.Equal(t, "https://app.example.com/page?tab=2", browser.location)
		require.Len(t, browser.rewrites, 1)

		// The captured token is persisted.
		stored, err := storage.GetItem("base44_access_token")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", stored)
	})

	t.Run("capture is idempotent", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{location: "https://app.example.com/page?access_token=tok-123"}
		storage := base44.NewMemoryStorage()
		store := auth.NewTokenStore(browser.environment(storage))

		_, err := store.InitFromEnvironment()
		require.NoError(t, err)

		// A second init sees the stripped URL and falls back to storage.
		second := auth.NewTokenStore(browser.environment(storage))

		token, err := second.InitFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
		assert.Len(t, browser.rewrites, 1)
	})

	t.Run("falls back to storage when URL has no token", func(t *testing.T) {
		t.Parallel()

		storage := base44.NewMemoryStorage()
		require.NoError(t, storage.SetItem("base44_access_token", "stored-tok"))

		browser := &fakeBrowser{location: "https://app.example.com/page"}
		store := auth.NewTokenStore(browser.environment(storage))

		token, err := store.InitFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "stored-tok", token)
		assert.Equal(t, "stored-tok", store.Get())
	})

	t.Run("no URL and empty storage yields no token", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore(base44.NewEnvironment(nil))

		token, err := store.InitFromEnvironment()
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Empty(t, store.Get())
	})

	t.Run("nil environment works", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore(nil)

		token, err := store.InitFromEnvironment()
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestTokenStore_SetGetRemove(t *testing.T) {
	t.Parallel()
	t.Run("set without persist stays in memory", func(t *testing.T) {
		t.Parallel()

		storage := base44.NewMemoryStorage()
		store := auth.NewTokenStore(base44.NewEnvironment(storage))

		require.NoError(t, store.Set("ephemeral", false))
		assert.Equal(t, "ephemeral", store.Get())

		_, err := storage.GetItem("base44_access_token")
		assert.ErrorIs(t, err, base44.ErrItemNotFound)
	})

	t.Run("set with persist writes storage", func(t *testing.T) {
		t.Parallel()

		storage := base44.NewMemoryStorage()
		store := auth.NewTokenStore(base44.NewEnvironment(storage))

		require.NoError(t, store.Set("durable", true))

		stored, err := storage.GetItem("base44_access_token")
		require.NoError(t, err)
		assert.Equal(t, "durable", stored)
	})

	t.Run("remove clears memory and storage", func(t *testing.T) {
		t.Parallel()

		storage := base44.NewMemoryStorage()
		store := auth.NewTokenStore(base44.NewEnvironment(storage))

		require.NoError(t, store.Set("durable", true))
		require.NoError(t, store.Remove())
		assert.Empty(t, store.Get())

		_, err := storage.GetItem("base44_access_token")
		assert.ErrorIs(t, err, base44.ErrItemNotFound)
	})

	t.Run("get lazily reads storage", func(t *testing.T) {
		t.Parallel()

		storage := base44.NewMemoryStorage()
		require.NoError(t, storage.SetItem("base44_access_token", "from-storage"))

		store := auth.NewTokenStore(base44.NewEnvironment(storage))
		assert.Equal(t, "from-storage", store.Get())
	})
}

func TestTokenStore_TokenSource(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore(base44.NewEnvironment(nil))
	require.NoError(t, store.Set("tok", false))

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}
