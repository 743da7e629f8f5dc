package errors

import (
	"errors"
	"fmt"
)

// Common error types for the event hub front-end
var (
	// Storage errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Platform errors
	ErrPlatformUnsupported = errors.New("platform unsupported")

	// Login flow errors
	ErrProviderError       = errors.New("identity provider reported an error")
	ErrMissingCode         = errors.New("missing authorization code")
	ErrMissingState        = errors.New("missing state parameter")
	ErrStateMismatch       = errors.New("state mismatch")
	ErrMissingVerifier     = errors.New("missing code verifier")
	ErrExchangeRejected    = errors.New("token exchange rejected")
	ErrIdentityFetchFailed = errors.New("identity fetch failed")
	ErrInvalidAccessToken  = errors.New("invalid access token")

	// Startup errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
