package base44

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is the uniform error shape surfaced by every client operation.
// HTTP failures carry the response status and any machine code the backend
// returned; transport failures carry no status and wrap the underlying
// cause instead.
type Error struct {
	Message string      `json:"message"        yaml:"message"`
	Status  int         `json:"status,omitempty" yaml:"status,omitempty"`
	Code    string      `json:"code,omitempty"   yaml:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"   yaml:"data,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status > 0 && e.Code != "":
		return fmt.Sprintf("%s (status: %d, code: %s)", e.Message, e.Status, e.Code)
	case e.Status > 0:
		return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	default:
		return e.Message
	}
}

// Unwrap exposes the underlying cause for transport failures.
func (e *Error) Unwrap() error {
	return e.cause
}

// errorBody is the wire shape of a backend error response.
type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail"`
	Data    interface{} `json:"data"`
}

// NewHTTPError builds an Error from a non-2xx response. The body is parsed
// on a best-effort basis; an unparseable body still yields an error carrying
// the status.
func NewHTTPError(status int, body []byte) *Error {
	apiErr := &Error{
		Status:  status,
		Message: http.StatusText(status),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		} else if parsed.Detail != "" {
			apiErr.Message = parsed.Detail
		}

		apiErr.Code = parsed.Code
		apiErr.Data = parsed.Data
	}

	return apiErr
}

// NewTransportError wraps a network-level failure that produced no response.
func NewTransportError(err error) *Error {
	return &Error{
		Message: "request failed",
		cause:   err,
	}
}

// Machine codes used by the client itself.
const (
	// ErrorCodeAuthRequired marks identity operations attempted without a token.
	ErrorCodeAuthRequired = "auth_required"
)

// NewAuthRequiredError reports an identity operation attempted with no token
// set. It is a specific error rather than a silent empty identity.
func NewAuthRequiredError() *Error {
	return &Error{
		Message: "no authentication token set",
		Code:    ErrorCodeAuthRequired,
		cause:   ErrNoToken,
	}
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrAppIDRequired          = errors.New("app ID is required")
	ErrResourcePathRequired   = errors.New("resource path is required")
	ErrNoToken                = errors.New("no authentication token set")
	ErrNoNavigator            = errors.New("environment has no navigator")
	ErrItemNotFound           = errors.New("item not found in storage")
	ErrAuthenticationRequired = errors.New("authentication required")
)

// IsNotFound checks if the error is a not-found response.
func IsNotFound(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is a rejected-credentials response.
func IsUnauthorized(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsAuthRequired checks if the error reports a missing token.
func IsAuthRequired(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}

	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeAuthRequired
	}

	return false
}

// IsTransport checks if the error is a network-level failure with no response.
func IsTransport(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == 0 && apiErr.Code == "" && apiErr.cause != nil
	}

	return false
}
