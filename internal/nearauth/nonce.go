package nearauth

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// maxNonceAge bounds how far in the past a nonce timestamp may lie.
// Uniqueness is the caller's responsibility (fresh timestamps); the
// validator only bounds plausibility.
const maxNonceAge = 10 * 365 * 24 * time.Hour

// NonceValidator turns the request's decimal millisecond-timestamp nonce
// into the fixed 32-byte form used in the signable payload and rejects
// implausible values.
type NonceValidator struct {
	now func() time.Time
}

func NewNonceValidator() *NonceValidator {
	return &NonceValidator{now: time.Now}
}

// NewNonceValidatorWithClock allows tests to pin the clock.
func NewNonceValidatorWithClock(now func() time.Time) *NonceValidator {
	return &NonceValidator{now: now}
}

// Validate left-zero-pads the nonce string to 32 characters and returns its
// UTF-8 bytes. It fails with ErrInvalidNonce when the string is not a
// decimal integer, longer than 32 characters, dated in the future, or older
// than maxNonceAge.
func (v *NonceValidator) Validate(nonce string) ([NonceLength]byte, error) {
	var padded [NonceLength]byte

	if nonce == "" || len(nonce) > NonceLength {
		return padded, errors.Wrapf(ErrInvalidNonce, "nonce length %d", len(nonce))
	}

	ts, err := strconv.ParseInt(nonce, 10, 64)
	if err != nil {
		return padded, errors.Wrap(ErrInvalidNonce, "nonce is not a decimal timestamp")
	}

	nowMs := v.now().UnixMilli()
	if ts > nowMs {
		return padded, errors.Wrap(ErrInvalidNonce, "nonce timestamp is in the future")
	}
	if nowMs-ts > maxNonceAge.Milliseconds() {
		return padded, errors.Wrap(ErrInvalidNonce, "nonce timestamp is too old")
	}

	copy(padded[:], strings.Repeat("0", NonceLength-len(nonce))+nonce)
	return padded, nil
}
