package auth

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is the normal outcome of fetching a credential that was
	// never stored or has been revoked.
	ErrNotFound = errors.New("credential not found")

	// ErrStoreUnavailable marks transient key/value store failures. Callers
	// may retry; it is never silently converted into a not-found or valid
	// result.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// genericAuthFailure is the only failure detail exposed to callers of
// Authenticate. Which sub-check rejected the request (nonce, signature, key
// format) stays in internal logs to avoid oracle attacks.
const genericAuthFailure = "authentication failed"
