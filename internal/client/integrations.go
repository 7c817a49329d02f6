package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/base44-io/base44-client/internal/http"
	"github.com/base44-io/base44-client/pkg/base44"
)

// IntegrationsClient implements base44.IntegrationsClient. Package and
// endpoint handles are synthesized on first access for any name; nothing is
// validated until the backend sees the path.
type IntegrationsClient struct {
	httpClient *http.Client
	basePath   string

	mu       sync.Mutex
	packages map[string]*integrationPackage
}

// NewIntegrationsClient creates the integration invocation surface.
func NewIntegrationsClient(httpClient *http.Client, basePath string) *IntegrationsClient {
	return &IntegrationsClient{
		httpClient: httpClient,
		basePath:   basePath,
		packages:   make(map[string]*integrationPackage),
	}
}

// Package implements base44.IntegrationsClient.Package.
func (c *IntegrationsClient) Package(name string) base44.IntegrationPackage {
	c.mu.Lock()
	defer c.mu.Unlock()

	pkg, ok := c.packages[name]
	if !ok {
		pkg = &integrationPackage{
			parent:    c,
			name:      name,
			endpoints: make(map[string]*integrationEndpoint),
		}
		c.packages[name] = pkg
	}

	return pkg
}

// Invoke implements base44.IntegrationsClient.Invoke by POSTing the payload
// to the package/endpoint-scoped path.
func (c *IntegrationsClient) Invoke(ctx context.Context, pkg, endpoint string, payload interface{}) (interface{}, error) {
	path := fmt.Sprintf("%s/integrations/%s/%s", c.basePath, url.PathEscape(pkg), url.PathEscape(endpoint))

	resp, err := c.httpClient.Post(ctx, path, payload)
	if err != nil {
		return nil, fmt.Errorf("invoking %s.%s: %w", pkg, endpoint, err)
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	var result interface{}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing %s.%s response: %w", pkg, endpoint, err)
	}

	return result, nil
}

// integrationPackage groups lazily created endpoint handles.
type integrationPackage struct {
	parent *IntegrationsClient
	name   string

	mu        sync.Mutex
	endpoints map[string]*integrationEndpoint
}

// Endpoint implements base44.IntegrationPackage.Endpoint.
func (p *integrationPackage) Endpoint(name string) base44.IntegrationEndpoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	endpoint, ok := p.endpoints[name]
	if !ok {
		endpoint = &integrationEndpoint{parent: p.parent, pkg: p.name, name: name}
		p.endpoints[name] = endpoint
	}

	return endpoint
}

// integrationEndpoint is one backend-defined callable.
type integrationEndpoint struct {
	parent *IntegrationsClient
	pkg    string
	name   string
}

// Invoke implements base44.IntegrationEndpoint.Invoke.
func (e *integrationEndpoint) Invoke(ctx context.Context, payload interface{}) (interface{}, error) {
	return e.parent.Invoke(ctx, e.pkg, e.name, payload)
}
