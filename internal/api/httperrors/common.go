package httperrors

import (
	"net/http"
)

const (
	TypeGeneric              = "generic"
	TypeMissingField         = "MISSING_FIELD"
	TypeAuthenticationFailed = "AUTHENTICATION_FAILED"
	TypeCredentialNotFound   = "CREDENTIAL_NOT_FOUND"
	TypeStoreUnavailable     = "STORE_UNAVAILABLE"
)

var (
	ErrBadRequestMissingField         = NewHTTPError(http.StatusBadRequest, TypeMissingField, "A required field of the signature request is missing.")
	ErrUnauthorizedAuthenticationFailed = NewHTTPError(http.StatusUnauthorized, TypeAuthenticationFailed, "Authentication failed.")
	ErrNotFoundCredential             = NewHTTPError(http.StatusNotFound, TypeCredentialNotFound, "No credential is stored for the requested account.")
	ErrServiceUnavailableStore        = NewHTTPError(http.StatusServiceUnavailable, TypeStoreUnavailable, "The credential store is temporarily unavailable.")
)
