package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/base44-io/base44-client/internal/auth"
	"github.com/base44-io/base44-client/internal/constants"
	"github.com/base44-io/base44-client/internal/http"
	"github.com/base44-io/base44-client/pkg/base44"
)

// AuthClient implements base44.AuthClient.
type AuthClient struct {
	httpClient *http.Client
	tokenStore *auth.TokenStore
	env        *base44.Environment
	logger     base44.Logger
	serverURL  string
	appID      string
	mePath     string

	// The identity probe result is cached until the token changes.
	mu         sync.Mutex
	probed     bool
	probeToken string
	probeValid bool
}

// NewAuthClient creates the authentication module.
func NewAuthClient(httpClient *http.Client, tokenStore *auth.TokenStore, env *base44.Environment, logger base44.Logger, serverURL, appID string) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		tokenStore: tokenStore,
		env:        env,
		logger:     logger,
		serverURL:  serverURL,
		appID:      appID,
		mePath:     fmt.Sprintf("%s/%s/auth/me", constants.APIBasePath, appID),
	}
}

// Me implements base44.AuthClient.Me.
func (c *AuthClient) Me(ctx context.Context) (*base44.User, error) {
	if c.tokenStore.Get() == "" {
		return nil, base44.NewAuthRequiredError()
	}

	resp, err := c.httpClient.Get(ctx, c.mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var user base44.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// UpdateMe implements base44.AuthClient.UpdateMe with partial update
// semantics.
func (c *AuthClient) UpdateMe(ctx context.Context, fields map[string]interface{}) (*base44.User, error) {
	if c.tokenStore.Get() == "" {
		return nil, base44.NewAuthRequiredError()
	}

	resp, err := c.httpClient.Put(ctx, c.mePath, fields)
	if err != nil {
		return nil, fmt.Errorf("updating current user: %w", err)
	}

	var user base44.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// IsAuthenticated implements base44.AuthClient.IsAuthenticated. It is safe
// to call speculatively: every failure, including network failure, yields
// false.
func (c *AuthClient) IsAuthenticated(ctx context.Context) bool {
	token := c.tokenStore.Get()
	if token == "" {
		return false
	}

	c.mu.Lock()
	if c.probed && c.probeToken == token {
		valid := c.probeValid
		c.mu.Unlock()

		return valid
	}
	c.mu.Unlock()

	_, err := c.Me(ctx)
	valid := err == nil

	c.mu.Lock()
	c.probed = true
	c.probeToken = token
	c.probeValid = valid
	c.mu.Unlock()

	return valid
}

// Login implements base44.AuthClient.Login. It builds the hosted login URL
// and asks the environment to navigate; control leaves the process when the
// host supports navigation. The login URL is returned either way so hosts
// without a navigator can present it.
func (c *AuthClient) Login(ctx context.Context, nextURL string) (string, error) {
	from := nextURL
	if from == "" {
		from = c.env.CurrentLocation()
	}

	query := url.Values{}
	query.Set("from_url", from)
	query.Set("app_id", c.appID)

	loginURL := c.serverURL + constants.LoginPath + "?" + query.Encode()

	err := c.env.Go(loginURL)
	if err != nil {
		return loginURL, fmt.Errorf("navigating to login: %w", err)
	}

	return loginURL, nil
}

// Logout implements base44.AuthClient.Logout: clears the token, then
// navigates when the host supports it.
func (c *AuthClient) Logout(ctx context.Context, redirectURL string) error {
	err := c.tokenStore.Remove()
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	c.invalidateProbe()

	if redirectURL == "" {
		query := url.Values{}
		query.Set("app_id", c.appID)
		redirectURL = c.serverURL + constants.LoginPath + "?" + query.Encode()
	}

	if c.env == nil || c.env.Navigate == nil {
		// Server-side hosts have nowhere to navigate; clearing the token is
		// the whole operation.
		return nil
	}

	err = c.env.Go(redirectURL)
	if err != nil {
		return fmt.Errorf("navigating after logout: %w", err)
	}

	return nil
}

// SetToken implements base44.AuthClient.SetToken. Subsequent requests use
// the new token immediately. A storage write failure is reported through the
// logger; the in-memory token is updated regardless, so requests keep
// working within the process.
func (c *AuthClient) SetToken(token string, persist bool) {
	err := c.tokenStore.Set(token, persist)
	if err != nil && c.logger != nil {
		c.logger.Warn("Failed to persist auth token", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.invalidateProbe()
}

func (c *AuthClient) invalidateProbe() {
	c.mu.Lock()
	c.probed = false
	c.probeToken = ""
	c.probeValid = false
	c.mu.Unlock()
}
