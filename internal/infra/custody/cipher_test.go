package custody

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	keys := []string{
		"0123456789abcdef",                 // 16 bytes, used as-is
		"0123456789abcdef01234567",         // 24 bytes, used as-is
		"0123456789abcdef0123456789abcdef", // 32 bytes, used as-is
		"short",                            // hashed to 32 bytes
		"a much longer configured secret key than any aes key size", // hashed
	}

	secret := []byte(`{"accessToken":"abc","refreshToken":"def"}`)

	for _, key := range keys {
		c := NewCipher(key)

		encoded, err := c.Encrypt(secret)
		require.NoError(t, err)

		decrypted, err := c.Decrypt(encoded)
		require.NoError(t, err)
		assert.Equal(t, secret, decrypted)
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	c := NewCipher("test-encryption-key")
	secret := []byte(`{"accessToken":"abc"}`)

	first, err := c.Encrypt(secret)
	require.NoError(t, err)
	second, err := c.Encrypt(secret)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	firstRaw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	secondRaw, err := base64.StdEncoding.DecodeString(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstRaw[1:1+GCMNonceSize], secondRaw[1:1+GCMNonceSize])

	for _, encoded := range []string{first, second} {
		decrypted, err := c.Decrypt(encoded)
		require.NoError(t, err)
		assert.Equal(t, secret, decrypted)
	}
}

func TestEnvelopeLayout(t *testing.T) {
	c := NewCipher("test-encryption-key")

	encoded, err := c.Encrypt([]byte("secret"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeVersion, raw[0])
	// iv + ciphertext + 16-byte GCM tag
	assert.Equal(t, 1+GCMNonceSize+len("secret")+16, len(raw))
}

func TestDecryptLegacyEnvelope(t *testing.T) {
	key := "legacy-envelope-key"
	secret := []byte(`{"accessToken":"legacy"}`)

	// Seal the way the pre-versioned format did: bare iv || ciphertext.
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	iv := make([]byte, GCMNonceSize)
	_, err = io.ReadFull(rand.Reader, iv)
	require.NoError(t, err)

	legacy := append(append([]byte(nil), iv...), gcm.Seal(nil, iv, secret, nil)...)

	decrypted, err := NewCipher(key).Decrypt(base64.StdEncoding.EncodeToString(legacy))
	require.NoError(t, err)
	assert.Equal(t, secret, decrypted)
}

func TestDecryptFailures(t *testing.T) {
	c := NewCipher("test-encryption-key")

	encoded, err := c.Encrypt([]byte("secret"))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64", "%%% not base64 %%%"},
		{"empty", ""},
		{"too short", base64.StdEncoding.EncodeToString([]byte{EnvelopeVersion, 0x02})},
		{"wrong key", func() string {
			other, err := NewCipher("another-key").Encrypt([]byte("secret"))
			require.NoError(t, err)
			return other
		}()},
		{"tampered ciphertext", func() string {
			tampered := append([]byte(nil), raw...)
			tampered[len(tampered)-1] ^= 0xFF
			return base64.StdEncoding.EncodeToString(tampered)
		}()},
		{"tampered iv", func() string {
			tampered := append([]byte(nil), raw...)
			tampered[1] ^= 0xFF
			return base64.StdEncoding.EncodeToString(tampered)
		}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, decErr := c.Decrypt(tt.encoded)
			require.Error(t, decErr)
			assert.True(t, errors.Is(decErr, ErrDecryptionFailed))
			assert.Nil(t, plaintext)
		})
	}
}

func TestDeriveKey(t *testing.T) {
	assert.Equal(t, []byte("0123456789abcdef"), deriveKey([]byte("0123456789abcdef")))

	derived := deriveKey([]byte("short"))
	assert.Len(t, derived, 32)

	// deterministic across calls, both paths use the same derivation
	assert.Equal(t, derived, deriveKey([]byte("short")))
}
