// Package auth implements the token store: the single authoritative holder
// of the auth token, bootstrapped from the environment URL or persistent
// storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/base44-io/base44-client/internal/constants"
	"github.com/base44-io/base44-client/pkg/base44"
)

// TokenStore holds the auth token in memory and mirrors it to the
// environment's storage. Reads observe the latest Set/Remove
// (last-writer-wins under the lock).
type TokenStore struct {
	mu         sync.RWMutex
	env        *base44.Environment
	storageKey string
	token      string
}

// NewTokenStore creates a store bound to the given environment. The
// environment is normalized so storage is always available.
func NewTokenStore(env *base44.Environment) *TokenStore {
	return &TokenStore{
		env:        env.Normalize(),
		storageKey: constants.TokenStorageKey,
	}
}

// InitFromEnvironment bootstraps the token. When the environment's current
// URL carries the token query parameter, the token is captured, persisted,
// and the parameter is stripped from the URL before returning, so it is
// never observed twice and never leaks through copied links. Otherwise the
// store falls back to persistent storage. Returns "" when neither source
// yields a token.
func (s *TokenStore) InitFromEnvironment() (string, error) {
	token, err := s.captureFromURL()
	if err != nil {
		return "", err
	}

	if token != "" {
		return token, nil
	}

	stored, err := s.env.Store().GetItem(s.storageKey)
	if err != nil {
		if errors.Is(err, base44.ErrItemNotFound) || errors.Is(err, base44.ErrKeyNotFoundInAnyStorage) {
			return "", nil
		}

		return "", fmt.Errorf("reading token from storage: %w", err)
	}

	s.mu.Lock()
	s.token = stored
	s.mu.Unlock()

	return stored, nil
}

// captureFromURL pulls the token out of the current URL and rewrites the URL
// without it. The strip happens before the token is returned to anyone.
func (s *TokenStore) captureFromURL() (string, error) {
	location := s.env.CurrentLocation()
	if location == "" {
		return "", nil
	}

	parsed, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing current URL: %w", err)
	}

	query := parsed.Query()

	token := query.Get(constants.TokenQueryParam)
	if token == "" {
		return "", nil
	}

	query.Del(constants.TokenQueryParam)
	parsed.RawQuery = query.Encode()

	err = s.env.Rewrite(parsed.String())
	if err != nil {
		return "", fmt.Errorf("rewriting URL after token capture: %w", err)
	}

	err = s.Set(token, true)
	if err != nil {
		return "", err
	}

	return token, nil
}

// Get returns the current token, falling back to storage when the in-memory
// copy is empty. Returns "" when no token is set.
func (s *TokenStore) Get() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		return token
	}

	stored, err := s.env.Store().GetItem(s.storageKey)
	if err != nil {
		return ""
	}

	s.mu.Lock()
	s.token = stored
	s.mu.Unlock()

	return stored
}

// Set updates the in-memory token and, when persist is true, writes it to
// storage.
func (s *TokenStore) Set(token string, persist bool) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if !persist {
		return nil
	}

	err := s.env.Store().SetItem(s.storageKey, token)
	if err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}

	return nil
}

// Remove clears both the in-memory and persisted token.
func (s *TokenStore) Remove() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	err := s.env.Store().RemoveItem(s.storageKey)
	if err != nil {
		return fmt.Errorf("removing persisted token: %w", err)
	}

	return nil
}

// Token implements the executor's TokenSource so the header always reflects
// the latest token.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	return s.Get(), nil
}
