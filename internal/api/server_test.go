package api_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/router"
	"github.com/open-crosspost/crosspost-proxy/internal/config"
	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	cfg := config.Server{
		Echo: config.EchoServer{
			ListenAddress:                  ":0",
			HideInternalServerErrorDetails: true,
			EnableRecoverMiddleware:        true,
		},
		Auth: config.AuthServer{
			Recipient:               nearauth.DefaultRecipient,
			CredentialEncryptionKey: "integration-test-key",
		},
		Redis: config.RedisServer{
			KeyPrefix: "test",
		},
	}

	s := api.NewServer(cfg)
	require.NoError(t, s.InitComponents())
	router.Init(s)

	return s
}

type wallet struct {
	accountID string
	pub       ed25519.PublicKey
	priv      ed25519.PrivateKey
}

func newWallet(t *testing.T, accountID string) wallet {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return wallet{accountID: accountID, pub: pub, priv: priv}
}

// bearer signs a fresh payload and returns the Authorization header value.
// The callback URL is carried explicitly in the credential so the signed
// payload and the rebuilt payload always agree.
func (w wallet) bearer(t *testing.T) string {
	t.Helper()

	const (
		message     = "integration login"
		callbackURL = "https://app.example.com/callback"
	)

	nonce := strconv.FormatInt(time.Now().UnixMilli(), 10)

	var padded [nearauth.NonceLength]byte
	copy(padded[:], strings.Repeat("0", nearauth.NonceLength-len(nonce))+nonce)

	payload := nearauth.NewSignablePayload(message, padded, nearauth.DefaultRecipient, callbackURL)
	encoded, err := payload.Encode()
	require.NoError(t, err)

	digest := sha256.Sum256(encoded)

	req := nearauth.SignatureRequest{
		AccountID:   w.accountID,
		PublicKey:   "ed25519:" + base58.Encode(w.pub),
		Signature:   base64.StdEncoding.EncodeToString(ed25519.Sign(w.priv, digest[:])),
		Message:     message,
		Nonce:       nonce,
		Recipient:   nearauth.DefaultRecipient,
		CallbackURL: callbackURL,
	}

	body, err := json.Marshal(req)
	require.NoError(t, err)

	return "Bearer " + base64.StdEncoding.EncodeToString(body)
}

func perform(s *api.Server, method, path, bearer string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}

const echoHeaderContentType = "Content-Type"

func TestPostVerify(t *testing.T) {
	s := newTestServer(t)
	w := newWallet(t, "alice.near")

	res := perform(s, http.MethodPost, "/api/v1/auth/verify", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var response types.PostVerifyResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	require.NotNil(t, response.Valid)
	assert.True(t, *response.Valid)
	assert.Equal(t, "alice.near", response.AccountID)
}

func TestPostVerifyRejections(t *testing.T) {
	s := newTestServer(t)
	w := newWallet(t, "alice.near")

	t.Run("missing header", func(t *testing.T) {
		res := perform(s, http.MethodPost, "/api/v1/auth/verify", "", "")
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		res := perform(s, http.MethodPost, "/api/v1/auth/verify", "Bearer not-a-credential", "")
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("tampered signature", func(t *testing.T) {
		bearer := w.bearer(t)

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(bearer, "Bearer "))
		require.NoError(t, err)

		var req nearauth.SignatureRequest
		require.NoError(t, json.Unmarshal(decoded, &req))

		sig, err := base64.StdEncoding.DecodeString(req.Signature)
		require.NoError(t, err)
		sig[0] ^= 0xff
		req.Signature = base64.StdEncoding.EncodeToString(sig)

		body, err := json.Marshal(req)
		require.NoError(t, err)

		res := perform(s, http.MethodPost, "/api/v1/auth/verify", "Bearer "+base64.StdEncoding.EncodeToString(body), "")
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestCredentialLifecycle(t *testing.T) {
	s := newTestServer(t)
	w := newWallet(t, "alice.near")

	secret := `{"access_token":"tw-token","refresh_token":"tw-refresh"}`

	res := perform(s, http.MethodPost, "/api/v1/credentials/twitter", w.bearer(t),
		`{"external_user_id":"12345","secret":`+secret+`}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = perform(s, http.MethodGet, "/api/v1/credentials/twitter/12345", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var credential types.GetCredentialResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &credential))
	assert.JSONEq(t, secret, string(credential.Secret))

	res = perform(s, http.MethodGet, "/api/v1/accounts/connected", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var connected types.GetConnectedAccountsResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &connected))
	assert.Equal(t, "alice.near", connected.AccountID)
	require.Len(t, connected.Accounts, 1)
	assert.Equal(t, "twitter", *connected.Accounts[0].Platform)
	assert.Equal(t, "12345", *connected.Accounts[0].ExternalUserID)

	res = perform(s, http.MethodDelete, "/api/v1/credentials/twitter/12345", w.bearer(t), "")
	require.Equal(t, http.StatusNoContent, res.Code)

	res = perform(s, http.MethodGet, "/api/v1/credentials/twitter/12345", w.bearer(t), "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = perform(s, http.MethodGet, "/api/v1/accounts/connected", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &connected))
	assert.Empty(t, connected.Accounts)
}

func TestCredentialValidation(t *testing.T) {
	s := newTestServer(t)
	w := newWallet(t, "alice.near")

	t.Run("missing external user id", func(t *testing.T) {
		res := perform(s, http.MethodPost, "/api/v1/credentials/twitter", w.bearer(t),
			`{"secret":{"access_token":"x"}}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("missing secret", func(t *testing.T) {
		res := perform(s, http.MethodPost, "/api/v1/credentials/twitter", w.bearer(t),
			`{"external_user_id":"12345"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestWalletAuthRejections(t *testing.T) {
	s := newTestServer(t)

	for name, bearer := range map[string]string{
		"missing header": "",
		"garbage":        "Bearer garbage",
		"valid json, missing fields": "Bearer " + base64.StdEncoding.EncodeToString(
			[]byte(`{"account_id":"alice.near"}`)),
	} {
		t.Run(name, func(t *testing.T) {
			res := perform(s, http.MethodGet, "/api/v1/accounts/connected", bearer, "")
			assert.Equal(t, http.StatusUnauthorized, res.Code)
		})
	}
}

func TestAuthorizationEndpoints(t *testing.T) {
	s := newTestServer(t)
	w := newWallet(t, "alice.near")

	res := perform(s, http.MethodGet, "/api/v1/auth/status", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var status types.AuthorizationStatusResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
	require.NotNil(t, status.Authorized)
	assert.False(t, *status.Authorized)

	res = perform(s, http.MethodPost, "/api/v1/auth/authorize", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
	require.NotNil(t, status.Authorized)
	assert.True(t, *status.Authorized)
	assert.NotEmpty(t, status.Timestamp)

	res = perform(s, http.MethodDelete, "/api/v1/auth/authorize", w.bearer(t), "")
	require.Equal(t, http.StatusNoContent, res.Code)

	res = perform(s, http.MethodGet, "/api/v1/auth/status", w.bearer(t), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
	require.NotNil(t, status.Authorized)
	assert.False(t, *status.Authorized)
}

func TestManagementEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/-/healthy", "/-/ready", "/-/metrics"} {
		res := perform(s, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, res.Code, path)
	}
}
