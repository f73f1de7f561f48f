package custody

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

const (
	// EnvelopeVersion tags the current envelope layout:
	// version(1) || iv(12) || ciphertext.
	EnvelopeVersion byte = 0x01

	// GCMNonceSize is the standard nonce size for GCM (12 bytes).
	GCMNonceSize = 12
)

// ErrDecryptionFailed covers authentication-tag mismatches and malformed
// envelopes alike. Partially decrypted data is never returned.
var ErrDecryptionFailed = errors.New("decryption failed")

// Cipher envelope-encrypts opaque secret blobs under a server-held key with
// AES-GCM. The secret schema is the caller's concern; the cipher only ever
// sees bytes.
type Cipher struct {
	key []byte
}

// NewCipher derives the symmetric key from the configured secret. A secret
// that is already a valid AES key size (16/24/32 bytes) is used as-is,
// anything else is hashed to a 32-byte key. The derivation is shared by the
// encrypt and decrypt paths, so changing it invalidates stored envelopes.
func NewCipher(secretKey string) *Cipher {
	return &Cipher{key: deriveKey([]byte(secretKey))}
}

func deriveKey(secret []byte) []byte {
	switch len(secret) {
	case 16, 24, 32:
		return append([]byte(nil), secret...)
	}
	sum := sha256.Sum256(secret)
	return sum[:]
}

// Encrypt seals the plaintext under a fresh random 12-byte IV and returns
// the base64-encoded envelope. The IV must never be reused under the same
// key; GCM loses confidentiality on nonce reuse.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to create cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, "failed to create GCM")
	}

	iv := make([]byte, GCMNonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Wrap(err, "failed to generate iv")
	}

	ciphertext := gcm.Seal(nil, iv, plaintext, nil)

	envelope := make([]byte, 0, 1+len(iv)+len(ciphertext))
	envelope = append(envelope, EnvelopeVersion)
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt opens a base64-encoded envelope. A leading version byte selects
// the current layout; anything else is parsed as the legacy unversioned
// form (bare iv || ciphertext), which must keep decrypting until stored
// envelopes are migrated.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, "envelope is not valid base64")
	}

	var iv, ciphertext []byte
	switch {
	case len(raw) > 1+GCMNonceSize && raw[0] == EnvelopeVersion:
		iv, ciphertext = raw[1:1+GCMNonceSize], raw[1+GCMNonceSize:]
	case len(raw) > GCMNonceSize:
		iv, ciphertext = raw[:GCMNonceSize], raw[GCMNonceSize:]
	default:
		return nil, errors.Wrap(ErrDecryptionFailed, "envelope too short")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, "failed to create cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, "failed to create GCM")
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, "failed to open envelope")
	}

	return plaintext, nil
}
