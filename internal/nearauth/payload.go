package nearauth

import (
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// PayloadTag is the u32 constant prepended to every signable payload
// (2**31 + 413). It namespaces off-chain messages away from transaction
// data so a signature over a payload can never be replayed on chain.
const PayloadTag uint32 = 2147484061

// SignablePayload is the canonical message both signer and verifier must
// encode byte-for-byte identically. Field order is part of the wire format
// and must not change.
type SignablePayload struct {
	Tag         uint32
	Message     string
	Nonce       [NonceLength]uint8
	Receiver    string
	CallbackURL *string
}

// NewSignablePayload builds the payload for one request. An empty
// callbackURL encodes as the absent option, not as an empty string.
func NewSignablePayload(message string, nonce [NonceLength]byte, receiver string, callbackURL string) SignablePayload {
	p := SignablePayload{
		Tag:      PayloadTag,
		Message:  message,
		Nonce:    nonce,
		Receiver: receiver,
	}
	if callbackURL != "" {
		p.CallbackURL = &callbackURL
	}
	return p
}

// Encode serializes the payload with Borsh: little-endian u32 tag,
// length-prefixed UTF-8 strings, the raw 32-byte nonce and a 1-byte
// presence flag for the optional callback URL.
func (p SignablePayload) Encode() ([]byte, error) {
	data, err := borsh.Serialize(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize signable payload")
	}
	return data, nil
}
