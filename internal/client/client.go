// Package client implements the composed Base44 client behind the public
// interfaces in pkg/base44.
package client

import (
	"fmt"
	"sync"

	"github.com/base44-io/base44-client/internal/auth"
	"github.com/base44-io/base44-client/internal/constants"
	"github.com/base44-io/base44-client/internal/http"
	"github.com/base44-io/base44-client/pkg/base44"
)

// Client implements base44.Client.
type Client struct {
	config       base44.Config
	httpClient   *http.Client
	tokenStore   *auth.TokenStore
	env          *base44.Environment
	basePath     string
	authClient   *AuthClient
	integrations *IntegrationsClient

	// Entity handles are synthesized on first access and cached per name.
	mu       sync.Mutex
	entities map[string]*EntityClient
}

// New wires the token store, request executor, and module clients. The
// config is expected to be normalized by the factory; app ID is validated
// here as the last line of defense.
func New(config *base44.Config) (*Client, error) {
	if config == nil {
		return nil, base44.ErrConfigRequired
	}

	if config.AppID == "" {
		return nil, base44.ErrAppIDRequired
	}

	serverURL := config.ServerURL
	if serverURL == "" {
		serverURL = constants.DefaultServerURL
	}

	env := config.Environment.Normalize()
	tokenStore := auth.NewTokenStore(env)

	if !config.DisableAutoAuth {
		_, err := tokenStore.InitFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("bootstrapping auth token: %w", err)
		}
	}

	if config.Token != "" {
		// Config-supplied tokens are held in memory only; SetToken persists.
		err := tokenStore.Set(config.Token, false)
		if err != nil {
			return nil, fmt.Errorf("setting initial token: %w", err)
		}
	}

	httpClient := http.NewClient(serverURL, tokenStore, buildHTTPOptions(config)...)
	basePath := constants.APIBasePath + "/" + config.AppID

	client := &Client{
		config:     *config,
		httpClient: httpClient,
		tokenStore: tokenStore,
		env:        env,
		basePath:   basePath,
		entities:   make(map[string]*EntityClient),
	}

	client.config.ServerURL = serverURL
	client.authClient = NewAuthClient(httpClient, tokenStore, env, config.Logger, serverURL, config.AppID)
	client.integrations = NewIntegrationsClient(httpClient, basePath)

	return client, nil
}

// buildHTTPOptions translates config into executor options.
func buildHTTPOptions(config *base44.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		opts = append(opts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.Interceptors != nil {
		opts = append(opts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			waitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			waitMax = config.RetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return opts
}

// Entity implements base44.Client.Entity.
func (c *Client) Entity(name string) base44.EntityClient {
	c.mu.Lock()
	defer c.mu.Unlock()

	handle, ok := c.entities[name]
	if !ok {
		handle = NewEntityClient(c.httpClient, c.basePath, name)
		c.entities[name] = handle
	}

	return handle
}

// Integrations implements base44.Client.Integrations.
func (c *Client) Integrations() base44.IntegrationsClient {
	return c.integrations
}

// Auth implements base44.Client.Auth.
func (c *Client) Auth() base44.AuthClient {
	return c.authClient
}

// SetToken implements base44.Client.SetToken. The new token is persisted and
// used by every subsequent request.
func (c *Client) SetToken(token string) {
	c.authClient.SetToken(token, true)
}

// Config implements base44.Client.Config. It returns a snapshot, not the
// live config.
func (c *Client) Config() base44.Config {
	return c.config
}
