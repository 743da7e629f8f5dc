package oidcclient

import "fmt"

// Kind classifies a failed callback.
type Kind int

const (
	KindProtocolError Kind = iota + 1
	KindMalformedCallback
	KindCsrfMismatch
	KindMissingVerifier
	KindExchangeRejected
	KindIdentityFetchFailed
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindProtocolError:
		return "protocol_error"
	case KindMalformedCallback:
		return "malformed_callback"
	case KindCsrfMismatch:
		return "csrf_mismatch"
	case KindMissingVerifier:
		return "missing_verifier"
	case KindExchangeRejected:
		return "exchange_rejected"
	case KindIdentityFetchFailed:
		return "identity_fetch_failed"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Message is the generic user-facing text for the kind. It never includes
// the stored state.
func (k Kind) Message() string {
	switch k {
	case KindProtocolError:
		return "The identity provider reported an error"
	case KindMalformedCallback:
		return "The sign-in response was incomplete"
	case KindCsrfMismatch:
		return "Invalid state parameter - possible CSRF attack"
	case KindMissingVerifier:
		return "This sign-in attempt has expired or was already used"
	case KindExchangeRejected:
		return "Failed to exchange authorization code"
	case KindIdentityFetchFailed:
		return "Failed to fetch user information"
	default:
		return "Sign-in failed"
	}
}

// CallbackError is a terminal callback failure.
type CallbackError struct {
	Kind  Kind
	Stage Stage
	// Message is safe to show to the user.
	Message string
	Err     error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("login callback %s at %s: %s", e.Kind, e.Stage, e.Message)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
