package base44

// Environment is the host capability the token store depends on instead of
// ambient browser state. Hosts inject their own URL accessor, URL rewriter,
// navigator, and storage; every field is optional except Storage.
type Environment struct {
	// CurrentURL returns the host's current location, or "" when the host
	// has no notion of one.
	CurrentURL func() string

	// RewriteURL replaces the host's current location without navigating,
	// used to strip the token query parameter after capture.
	RewriteURL func(url string) error

	// Navigate performs a full navigation away from the host.
	Navigate func(url string) error

	// Storage persists the auth token.
	Storage TokenStorage
}

// NewEnvironment returns a storage-only environment with no URL or
// navigation capabilities, suitable for server-side hosts.
func NewEnvironment(storage TokenStorage) *Environment {
	if storage == nil {
		storage = NewMemoryStorage()
	}

	return &Environment{Storage: storage}
}

// CurrentLocation returns the current URL, or "" when the capability is
// absent.
func (e *Environment) CurrentLocation() string {
	if e == nil || e.CurrentURL == nil {
		return ""
	}

	return e.CurrentURL()
}

// Rewrite replaces the current location when the capability is present.
func (e *Environment) Rewrite(url string) error {
	if e == nil || e.RewriteURL == nil {
		return nil
	}

	return e.RewriteURL(url)
}

// Go navigates away when the capability is present, and reports
// ErrNoNavigator otherwise.
func (e *Environment) Go(url string) error {
	if e == nil || e.Navigate == nil {
		return ErrNoNavigator
	}

	return e.Navigate(url)
}

// Store returns the storage backend. Callers normalize first, so the
// backend is always present.
func (e *Environment) Store() TokenStorage {
	return e.Storage
}

// Normalize returns the environment with a guaranteed storage backend,
// creating a storage-only environment when the receiver is nil.
func (e *Environment) Normalize() *Environment {
	if e == nil {
		return NewEnvironment(nil)
	}

	if e.Storage == nil {
		e.Storage = NewMemoryStorage()
	}

	return e
}
