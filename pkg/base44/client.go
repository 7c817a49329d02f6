package base44

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Env selects the backend environment an app runs against.
const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
)

// Client is the composed client surface returned by the factory.
type Client interface {
	// Entity returns the CRUD handle for the named entity. Any name works;
	// unknown names simply 404 at the backend. Handles are synthesized on
	// first access and cached per name.
	Entity(name string) EntityClient

	// Integrations returns the integration invocation surface.
	Integrations() IntegrationsClient

	// Auth returns the authentication module.
	Auth() AuthClient

	// SetToken updates the auth token; all subsequent requests use it
	// immediately.
	SetToken(token string)

	// Config returns a read-only snapshot of the client configuration.
	Config() Config
}

// EntityClient exposes the CRUD operation set for one entity name.
type EntityClient interface {
	List(ctx context.Context, params *QueryParams) ([]Entity, error)
	Filter(ctx context.Context, query map[string]interface{}, params *QueryParams) ([]Entity, error)
	Get(ctx context.Context, id string) (Entity, error)
	Create(ctx context.Context, fields map[string]interface{}) (Entity, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (Entity, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, query map[string]interface{}) error
	BulkCreate(ctx context.Context, records []map[string]interface{}) ([]Entity, error)
	Import(ctx context.Context, filename string, file io.Reader) (ImportResult, error)
}

// IntegrationsClient exposes backend-defined callables grouped by package.
// Both package and endpoint names are resolved lazily; accessing a handle
// never fails, only invoking an unknown path does.
type IntegrationsClient interface {
	Package(name string) IntegrationPackage
	Invoke(ctx context.Context, pkg, endpoint string, payload interface{}) (interface{}, error)
}

// IntegrationPackage groups the endpoints of one integration package.
type IntegrationPackage interface {
	Endpoint(name string) IntegrationEndpoint
}

// IntegrationEndpoint is a single backend-defined callable.
type IntegrationEndpoint interface {
	Invoke(ctx context.Context, payload interface{}) (interface{}, error)
}

// AuthClient exposes the authentication lifecycle.
type AuthClient interface {
	// Me fetches the current identity. It fails with an auth-required error
	// when no token is set, and propagates backend rejections.
	Me(ctx context.Context) (*User, error)

	// UpdateMe applies a partial update to the current identity.
	UpdateMe(ctx context.Context, fields map[string]interface{}) (*User, error)

	// IsAuthenticated reports whether a token is present and the identity
	// probe succeeds. It never returns an error; any failure, including
	// network failure, yields false.
	IsAuthenticated(ctx context.Context) bool

	// Login navigates to the hosted login page and returns the login URL.
	// From the caller's perspective control leaves the process when the
	// environment supports navigation.
	Login(ctx context.Context, nextURL string) (string, error)

	// Logout clears the token and navigates to redirectURL when the
	// environment supports navigation.
	Logout(ctx context.Context, redirectURL string) error

	// SetToken updates the token, optionally persisting it to storage.
	SetToken(token string, persist bool)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration. It is immutable after client
// construction; the token is the one field with a dedicated setter.
type Config struct {
	// AppID identifies the application. Required.
	AppID string

	// ServerURL is the backend base URL. Defaults to the hosted backend.
	// The factory normalizes it by trimming a trailing slash and adding
	// "https://" if no scheme is present.
	ServerURL string

	// Env selects prod or dev behavior. Defaults to EnvProduction.
	Env string

	// Token is an optional initial auth token. It is held in memory only;
	// use Client.SetToken or AuthClient.SetToken to persist one.
	Token string

	// RequiresAuth makes the factory run the identity probe and trigger the
	// login redirect when the client is not authenticated.
	RequiresAuth bool

	// DisableAutoAuth skips the token bootstrap from the environment URL and
	// storage at construction. Bootstrap is on by default.
	DisableAutoAuth bool

	// Environment provides the host's URL, navigation, and storage
	// capabilities. Defaults to a storage-only environment.
	Environment *Environment

	// Logger is an optional structured logger used by the request layer.
	Logger Logger

	// Interceptors optionally observes every request and response at the
	// executor level (logging, metrics, client-side rate limiting).
	Interceptors *InterceptorChain

	// Debug enables request/response logging when a Logger is provided.
	// Tokens are never logged.
	Debug bool

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient optionally supplies the underlying transport.
	HTTPClient *http.Client

	// RetryMax is the maximum number of retries for transient failures
	// (5xx, 429, connection errors). If 0, a default is applied.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}
