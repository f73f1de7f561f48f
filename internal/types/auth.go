package types

import (
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
)

// PostVerifyResponse reports the outcome of authenticating the bearer
// credential of the request.
type PostVerifyResponse struct {
	Valid     *bool  `json:"valid"`
	AccountID string `json:"account_id,omitempty"`
}

func (r *PostVerifyResponse) Validate() error {
	if r.Valid == nil {
		return errors.New("valid is required")
	}
	if swag.BoolValue(r.Valid) && r.AccountID == "" {
		return errors.New("account_id is required for a valid result")
	}
	return nil
}

// AuthorizationStatusResponse mirrors the stored authorization record.
type AuthorizationStatusResponse struct {
	AccountID  string `json:"account_id"`
	Authorized *bool  `json:"authorized"`
	Timestamp  string `json:"timestamp,omitempty"`
}

func (r *AuthorizationStatusResponse) Validate() error {
	if r.Authorized == nil {
		return errors.New("authorized is required")
	}
	return nil
}
