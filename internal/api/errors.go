package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthorized is returned when the server rejects the request's
	// credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is returned when the client could not re-establish
	// a valid access token and the session has been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoSession is returned when an operation needs a stored session
	// (such as building a refresh payload) and none is present.
	ErrNoSession = errors.New("no session")
)

// APIError is returned for any non-2xx response from the ShikshaDesk API.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the human-readable message from the server's error body,
	// empty when the body carried none.
	Message string
	// RequestID is the X-Request-ID the client attached to the request.
	RequestID string
}

// Error returns the error message.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shikshadesk [HTTP_%d]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("shikshadesk [HTTP_%d]", e.Status)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnauthorized) for 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// newAPIError builds an APIError from a response, extracting the
// server's message field when the body is a JSON error document.
func newAPIError(status int, body []byte, requestID string) *APIError {
	var errBody struct {
		Message string `json:"message"`
	}
	// Best effort; a non-JSON body just yields an empty message.
	_ = json.Unmarshal(body, &errBody)
	return &APIError{Status: status, Message: errBody.Message, RequestID: requestID}
}

// AuthExpiredError is returned when a request failed with 401 and the
// silent refresh could not recover. By the time a caller sees it, the
// stored session has been cleared and the auth-expired hook has fired.
type AuthExpiredError struct {
	// Cause is the original authorization failure (or the refresh error
	// when the refresh itself failed locally).
	Cause error
}

// Error returns a human-readable description.
func (e *AuthExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %v", e.Cause)
	}
	return "session expired"
}

// Unwrap returns the underlying failure.
func (e *AuthExpiredError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrSessionExpired).
func (e *AuthExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// SignInError is returned by SignIn when credentials are rejected or the
// server cannot be reached. Message is always safe to show to the user.
type SignInError struct {
	// Message is the display message: the server's message when it sent
	// one, otherwise a generic description of the failure.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the display message.
func (e *SignInError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SignInError) Unwrap() error {
	return e.Cause
}
