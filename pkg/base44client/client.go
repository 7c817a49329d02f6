// Package base44client provides the main entry point for creating Base44
// clients.
package base44client

import (
	"context"
	"fmt"
	"strings"

	"github.com/base44-io/base44-client/internal/client"
	"github.com/base44-io/base44-client/internal/constants"
	"github.com/base44-io/base44-client/pkg/base44"
)

// New creates a new Base44 client. It fails fast, before any network call,
// when the app ID is missing; applies the server URL, env, and auto-auth
// defaults; and bootstraps the token from the environment.
//
// When RequiresAuth is set and auto-auth is not disabled, construction runs
// the identity probe and, when unauthenticated, initiates the login redirect
// and returns base44.ErrAuthenticationRequired.
func New(ctx context.Context, config *base44.Config) (base44.Client, error) {
	if config == nil {
		return nil, base44.ErrConfigRequired
	}

	if config.AppID == "" {
		return nil, base44.ErrAppIDRequired
	}

	// Normalization happens on a copy; the caller's config is never touched.
	normalized := *config
	normalized.ServerURL = normalizeServerURL(normalized.ServerURL)

	if normalized.Env == "" {
		normalized.Env = base44.EnvProduction
	}

	composed, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if normalized.RequiresAuth && !normalized.DisableAutoAuth {
		if !composed.Auth().IsAuthenticated(ctx) {
			// The redirect is the page-load behavior of a required-auth app;
			// hosts without a navigator get the login URL in the error chain.
			_, loginErr := composed.Auth().Login(ctx, "")
			if loginErr != nil {
				return nil, fmt.Errorf("%w: %w", base44.ErrAuthenticationRequired, loginErr)
			}

			return nil, base44.ErrAuthenticationRequired
		}
	}

	return composed, nil
}

// NewWithAppID creates a client with just an app ID and defaults.
func NewWithAppID(ctx context.Context, appID string) (base44.Client, error) {
	return New(ctx, &base44.Config{
		AppID: appID,
	})
}

// NewWithToken creates a client with an app ID and an access token.
func NewWithToken(ctx context.Context, appID, token string) (base44.Client, error) {
	return New(ctx, &base44.Config{
		AppID: appID,
		Token: token,
	})
}

// normalizeServerURL applies the default host, trims a trailing slash, and
// adds https:// when no scheme is present.
func normalizeServerURL(serverURL string) string {
	if serverURL == "" {
		return constants.DefaultServerURL
	}

	serverURL = strings.TrimSuffix(serverURL, "/")
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}

	return serverURL
}
