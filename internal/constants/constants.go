// Package constants centralizes defaults shared across the client packages.
package constants

import "time"

// Backend defaults.
const (
	// DefaultServerURL is the hosted backend used when Config.ServerURL is
	// empty.
	DefaultServerURL = "https://base44.app"

	// APIBasePath is the path prefix all app-scoped resources live under.
	APIBasePath = "/api/apps"

	// LoginPath is the hosted login page path.
	LoginPath = "/login"
)

// Token handling.
const (
	// TokenQueryParam is the query parameter the login redirect delivers the
	// token in. It is stripped from the URL immediately after capture.
	TokenQueryParam = "access_token"

	// TokenStorageKey is the key the token is persisted under.
	TokenStorageKey = "base44_access_token"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0o750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0o600
)

// HTTP timeouts and retry bounds.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 10 * time.Second
)
