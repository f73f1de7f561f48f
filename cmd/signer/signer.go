package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
)

// New returns the signer test client. It produces a wallet-signed bearer
// credential the way a NEAR wallet would, which makes exercising the
// authenticated endpoints from the command line possible without one.
func New() *cobra.Command {
	var (
		accountID   string
		message     string
		recipient   string
		callbackURL string
		verifyURL   string
	)

	cmd := &cobra.Command{
		Use:   "signer",
		Short: "Generates a signed bearer credential for testing",
		Long: `Generates a throwaway ed25519 key, signs a canonical payload with a
fresh timestamp nonce and prints the resulting bearer credential.
With --verify-url set, the credential is additionally POSTed to the
verification endpoint and the response printed.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := runSigner(accountID, message, recipient, callbackURL, verifyURL); err != nil {
				log.Fatal().Err(err).Msg("Signer failed")
			}
		},
	}

	cmd.Flags().StringVar(&accountID, "account-id", "alice.near", "NEAR account the credential claims")
	cmd.Flags().StringVar(&message, "message", "crosspost-proxy test login", "Message embedded in the signed payload")
	cmd.Flags().StringVar(&recipient, "recipient", nearauth.DefaultRecipient, "Receiver account the payload is addressed to")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "Callback URL embedded in the signed payload; derived from --verify-url when empty")
	cmd.Flags().StringVar(&verifyURL, "verify-url", "", "Verification endpoint, e.g. http://localhost:8080/api/v1/auth/verify")

	return cmd
}

func runSigner(accountID, message, recipient, callbackURL, verifyURL string) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	// The server substitutes the request URL for a missing callback before
	// rebuilding the payload, so the signed callback must match the path
	// the credential is presented on.
	if callbackURL == "" && verifyURL != "" {
		u, err := url.Parse(verifyURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse verify url")
		}
		callbackURL = u.RequestURI()
	}

	nonce := strconv.FormatInt(time.Now().UnixMilli(), 10)

	var padded [nearauth.NonceLength]byte
	copy(padded[nearauth.NonceLength-len(nonce):], nonce)
	for i := 0; i < nearauth.NonceLength-len(nonce); i++ {
		padded[i] = '0'
	}

	payload := nearauth.NewSignablePayload(message, padded, recipient, callbackURL)

	encoded, err := payload.Encode()
	if err != nil {
		return err
	}

	digest := sha256.Sum256(encoded)
	signature := ed25519.Sign(priv, digest[:])

	req := nearauth.SignatureRequest{
		AccountID:   accountID,
		PublicKey:   "ed25519:" + base58.Encode(pub),
		Signature:   base64.StdEncoding.EncodeToString(signature),
		Message:     message,
		Nonce:       nonce,
		Recipient:   recipient,
		CallbackURL: callbackURL,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	bearer := base64.StdEncoding.EncodeToString(body)

	fmt.Fprintf(os.Stdout, "Authorization: Bearer %s\n", bearer)

	if verifyURL == "" {
		return nil
	}

	return verify(verifyURL, bearer)
}

func verify(verifyURL, bearer string) error {
	httpReq, err := http.NewRequest(http.MethodPost, verifyURL, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearer)

	client := &http.Client{Timeout: 10 * time.Second}

	res, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d %s\n", res.StatusCode, string(resBody))

	return nil
}
