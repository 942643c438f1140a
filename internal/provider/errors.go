package provider

import (
	"errors"
	"fmt"
)

// Failure classes. All are recoverable: callers fall back, they never surface them to end users.
var (
	// ErrProviderUnavailable means no provider is configured.
	ErrProviderUnavailable = errors.New("no provider available")
	// ErrProviderCallFailed covers network, auth, quota, timeout and panic failures.
	ErrProviderCallFailed = errors.New("provider call failed")
	// ErrProviderResponseUnparseable means the response lacked the expected structure.
	ErrProviderResponseUnparseable = errors.New("provider response unparseable")
)

// Error records which provider failed and how.
// errors.Is matches both the failure class and the underlying cause.
type Error struct {
	Provider string
	Kind     error
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func callFailed(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: ErrProviderCallFailed, Err: err}
}

func unparseable(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: ErrProviderResponseUnparseable, Err: err}
}
