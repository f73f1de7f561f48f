package nearauth

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignablePayloadEncoding(t *testing.T) {
	var nonce [NonceLength]byte
	copy(nonce[:], "00000000000000001700000000000000")

	payload := NewSignablePayload("hello", nonce, "crosspost.near", "")
	encoded, err := payload.Encode()
	require.NoError(t, err)

	// tag: u32 little-endian
	assert.Equal(t, PayloadTag, binary.LittleEndian.Uint32(encoded[0:4]))

	// message: u32 length prefix + bytes
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(encoded[4:8]))
	assert.Equal(t, "hello", string(encoded[8:13]))

	// nonce: raw 32 bytes, no prefix
	assert.Equal(t, nonce[:], encoded[13:45])

	// receiver: u32 length prefix + bytes
	assert.Equal(t, uint32(14), binary.LittleEndian.Uint32(encoded[45:49]))
	assert.Equal(t, "crosspost.near", string(encoded[49:63]))

	// absent callback url: single zero presence flag
	assert.Equal(t, []byte{0x00}, encoded[63:])
}

func TestSignablePayloadEncodingWithCallbackURL(t *testing.T) {
	var nonce [NonceLength]byte

	payload := NewSignablePayload("m", nonce, "r", "https://example.com/cb")
	encoded, err := payload.Encode()
	require.NoError(t, err)

	// after tag(4) + message(4+1) + nonce(32) + receiver(4+1)
	rest := encoded[46:]
	assert.Equal(t, byte(0x01), rest[0])
	assert.Equal(t, uint32(len("https://example.com/cb")), binary.LittleEndian.Uint32(rest[1:5]))
	assert.Equal(t, "https://example.com/cb", string(rest[5:]))
}

func TestSignablePayloadEncodingDeterministic(t *testing.T) {
	var nonce [NonceLength]byte
	copy(nonce[:], "00000000000001727431400000000000")

	a, err := NewSignablePayload("post this", nonce, "crosspost.near", "https://app.example").Encode()
	require.NoError(t, err)
	b, err := NewSignablePayload("post this", nonce, "crosspost.near", "https://app.example").Encode()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
