package nearauth

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ParseBearer extracts the SignatureRequest from an Authorization header
// value. The credential is a JSON object, optionally base64-encoded, carried
// behind the "Bearer" scheme. Presence of the required fields is checked;
// defaulting of recipient and callback URL is left to the caller.
func ParseBearer(header string) (SignatureRequest, error) {
	var req SignatureRequest

	token := strings.TrimSpace(header)
	if prefix := "bearer "; len(token) > len(prefix) && strings.EqualFold(token[:len(prefix)], prefix) {
		token = strings.TrimSpace(token[len(prefix):])
	}
	if token == "" {
		return req, errors.Wrap(ErrMissingField, "authorization token")
	}

	raw := []byte(token)
	if !strings.HasPrefix(token, "{") {
		decoded, err := base64.StdEncoding.DecodeString(token)
		if err != nil {
			decoded, err = base64.URLEncoding.DecodeString(token)
		}
		if err != nil {
			return req, errors.Wrap(err, "failed to base64-decode authorization token")
		}
		raw = decoded
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, errors.Wrap(err, "failed to unmarshal authorization token")
	}

	if err := req.Validate(); err != nil {
		return req, err
	}

	return req, nil
}
