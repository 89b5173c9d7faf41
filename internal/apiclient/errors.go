package apiclient

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindRejected means the API answered with a non-2xx status.
	KindRejected Kind = iota + 1
	// KindNetworkUnavailable means no response was received.
	KindNetworkUnavailable
	// KindMalformed means a 2xx response could not be decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindNetworkUnavailable:
		return "network unavailable"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is returned for every failed call except context cancellation.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status; zero unless Kind is KindRejected or KindMalformed
	Message string // server-provided message, may be empty
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: rejected with status %d: %s", e.Method, e.Path, e.Status, e.Message)
		}
		return fmt.Sprintf("%s %s: rejected with status %d", e.Method, e.Path, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRejected reports whether err is an API rejection.
func IsRejected(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindRejected
}

// IsNetworkUnavailable reports whether err means the API could not be reached.
func IsNetworkUnavailable(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindNetworkUnavailable
}

// IsMalformed reports whether err is an undecodable success response.
func IsMalformed(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindMalformed
}

// IsCanceled reports whether err comes from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// StatusCode returns the HTTP status of a rejection, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.Status
	}
	return 0
}

// UserMessage returns the text to show the user for err: the server message
// when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	e, ok := asError(err)
	if !ok {
		return fallback
	}
	switch {
	case e.Kind == KindRejected && e.Message != "":
		return e.Message
	case e.Kind == KindNetworkUnavailable:
		return "The server could not be reached. Check your connection and try again."
	default:
		return fallback
	}
}
