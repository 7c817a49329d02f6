// Package http implements the request executor every client operation funnels
// through: one place that builds URLs, encodes queries, attaches the auth
// token, and classifies failures into the uniform error shape.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/base44-io/base44-client/internal/constants"
	"github.com/base44-io/base44-client/pkg/base44"
)

// TokenSource yields the auth token to attach to a request. It is read at
// call time, never cached at construction, so token updates take effect
// immediately. An empty token means the Authorization header is omitted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Request describes one HTTP request to the backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-marshaled when RawBody is unset.
	Body interface{}

	// RawBody is sent as-is with ContentType (multipart uploads).
	RawBody     []byte
	ContentType string

	Headers map[string]string
}

// Response is the parsed outcome of a request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against one backend base URL.
type Client struct {
	baseURL      string
	tokenSource  TokenSource
	retryClient  *retryablehttp.Client
	logger       base44.Logger
	debug        bool
	userAgent    string
	interceptors *base44.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger base44.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes retry behavior for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient = httpClient
	}
}

// WithInterceptors attaches an interceptor chain to the executor.
func WithInterceptors(chain *base44.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a request executor bound to baseURL.
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	// Surface the final response after retry exhaustion so non-2xx statuses
	// classify as HTTP errors rather than transport errors.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		tokenSource: tokenSource,
		retryClient: retryClient,
		userAgent:   "base44-client-go",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request and classifies the outcome. A non-2xx response
// returns both the response and a *base44.Error carrying its status; a
// network-level failure returns a *base44.Error wrapping the cause.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Path == "" {
		return nil, base44.ErrResourcePathRequired
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	interceptReq := &base44.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    body,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	var bodyArg interface{}
	if body != nil {
		bodyArg = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyArg)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, values := range interceptReq.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	err = c.attachToken(ctx, httpReq)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		transportErr := base44.NewTransportError(err)
		c.runResponseInterceptors(ctx, interceptReq, &base44.Response{Error: transportErr})

		return nil, transportErr
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, base44.NewTransportError(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
		})
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		apiErr := base44.NewHTTPError(httpResp.StatusCode, respBody)
		c.runResponseInterceptors(ctx, interceptReq, &base44.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       respBody,
			Error:      apiErr,
		})

		return resp, apiErr
	}

	c.runResponseInterceptors(ctx, interceptReq, &base44.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       respBody,
	})

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request. Query carries bulk-delete filters and may
// be nil.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

// PostRaw performs a POST with a preassembled body, used for multipart
// uploads.
func (c *Client) PostRaw(ctx context.Context, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
	})
}

// attachToken reads the current token and sets the Authorization header when
// one is present.
func (c *Client) attachToken(ctx context.Context, httpReq *retryablehttp.Request) error {
	if c.tokenSource == nil {
		return nil
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, req *base44.Request, resp *base44.Response) {
	if c.interceptors == nil {
		return
	}

	_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
}

// encodeBody renders the request body and reports its content type.
func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return data, "application/json", nil
}
