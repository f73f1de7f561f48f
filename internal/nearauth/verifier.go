package nearauth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

// VerifySignature reports whether the holder of publicKey signed exactly
// this payload. Verification runs over the SHA-256 digest of the canonical
// encoding, not the raw bytes; signers hash before signing and a verifier
// that skips the digest silently loses interoperability.
//
// Any decode failure (malformed base64/base58, wrong byte lengths,
// unsupported key type) yields false, never an error: signature checks are
// total functions from the caller's perspective.
func VerifySignature(publicKey, signature string, payload SignablePayload) bool {
	encoded, err := payload.Encode()
	if err != nil {
		return false
	}
	digest := sha256.Sum256(encoded)

	sigBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return false
	}

	keyBytes, ok := decodePublicKey(publicKey)
	if !ok {
		return false
	}

	return ed25519.Verify(keyBytes, digest[:], sigBytes)
}

// decodePublicKey strips the key-type prefix (e.g. "ed25519:") and decodes
// the base58 key material.
func decodePublicKey(publicKey string) (ed25519.PublicKey, bool) {
	encoded := publicKey
	if idx := strings.IndexByte(publicKey, ':'); idx >= 0 {
		if publicKey[:idx] != ed25519KeyType {
			return nil, false
		}
		encoded = publicKey[idx+1:]
	}

	decoded := base58.Decode(encoded)
	if len(decoded) != ed25519.PublicKeySize {
		return nil, false
	}

	return ed25519.PublicKey(decoded), true
}
