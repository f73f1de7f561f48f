package nearauth

import (
	"github.com/pkg/errors"
)

const (
	// DefaultRecipient is the receiver account verified signatures are
	// addressed to when the request does not carry one.
	DefaultRecipient = "crosspost.near"

	// NonceLength is the fixed nonce size of the signable payload.
	NonceLength = 32

	ed25519KeyType = "ed25519"
)

var (
	ErrMissingField = errors.New("required field is missing")
	ErrInvalidNonce = errors.New("invalid nonce")
)

// SignatureRequest carries everything a wallet supplies to prove control of
// an account for a single request. It is never persisted.
type SignatureRequest struct {
	AccountID   string `json:"account_id"`
	PublicKey   string `json:"public_key"`
	Signature   string `json:"signature"`
	Message     string `json:"message"`
	Nonce       string `json:"nonce"`
	Recipient   string `json:"recipient,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// Validate checks the fields the inbound authentication contract requires.
// Recipient and CallbackURL are optional and defaulted by the caller.
func (r SignatureRequest) Validate() error {
	switch {
	case r.AccountID == "":
		return errors.Wrap(ErrMissingField, "account_id")
	case r.PublicKey == "":
		return errors.Wrap(ErrMissingField, "public_key")
	case r.Signature == "":
		return errors.Wrap(ErrMissingField, "signature")
	case r.Message == "":
		return errors.Wrap(ErrMissingField, "message")
	case r.Nonce == "":
		return errors.Wrap(ErrMissingField, "nonce")
	}
	return nil
}

// VerificationResult is the terminal outcome of authenticating one request.
// AccountID is set only when Valid is true.
type VerificationResult struct {
	Valid     bool   `json:"valid"`
	AccountID string `json:"account_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
