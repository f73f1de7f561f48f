package types

import (
	"encoding/json"

	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
)

// PostCredentialPayload stores a secret blob for an external account. The
// secret schema is opaque to the service; it is encrypted as raw bytes.
type PostCredentialPayload struct {
	ExternalUserID *string         `json:"external_user_id"`
	Secret         json.RawMessage `json:"secret"`
}

func (p *PostCredentialPayload) Validate() error {
	if swag.StringValue(p.ExternalUserID) == "" {
		return errors.New("external_user_id is required")
	}
	if len(p.Secret) == 0 {
		return errors.New("secret is required")
	}
	return nil
}

// GetCredentialResponse returns the decrypted secret blob for the
// requested (platform, external user) pair.
type GetCredentialResponse struct {
	Platform       *string         `json:"platform"`
	ExternalUserID *string         `json:"external_user_id"`
	Secret         json.RawMessage `json:"secret"`
}

func (r *GetCredentialResponse) Validate() error {
	if swag.StringValue(r.Platform) == "" {
		return errors.New("platform is required")
	}
	if swag.StringValue(r.ExternalUserID) == "" {
		return errors.New("external_user_id is required")
	}
	return nil
}

// ConnectedAccount is one linked external account of a wallet account.
type ConnectedAccount struct {
	Platform       *string `json:"platform"`
	ExternalUserID *string `json:"external_user_id"`
}

// GetConnectedAccountsResponse lists every external account linked to the
// authenticated wallet account.
type GetConnectedAccountsResponse struct {
	AccountID string             `json:"account_id"`
	Accounts  []ConnectedAccount `json:"accounts"`
}

func (r *GetConnectedAccountsResponse) Validate() error {
	if r.AccountID == "" {
		return errors.New("account_id is required")
	}
	if r.Accounts == nil {
		return errors.New("accounts must not be null")
	}
	return nil
}
