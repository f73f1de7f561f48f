package auth

import (
	"context"

	"github.com/open-crosspost/crosspost-proxy/internal/infra/accounts"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/custody"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/open-crosspost/crosspost-proxy/internal/metrics"
	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
	"github.com/pkg/errors"
)

// Service is the façade external collaborators call: it answers "is this
// request authentically signed by account X" and stores, fetches and
// revokes encrypted credentials on that account's behalf. Requests carry no
// session state across calls; every request re-proves identity.
type Service struct {
	recipient string
	nonces    *nearauth.NonceValidator
	cipher    *custody.Cipher
	kv        storage.KV
	index     *accounts.Index
	authz     *accounts.Authorizations
	metrics   *metrics.Service
}

func NewService(recipient string, cipher *custody.Cipher, kv storage.KV, metricsService *metrics.Service) *Service {
	if recipient == "" {
		recipient = nearauth.DefaultRecipient
	}
	return &Service{
		recipient: recipient,
		nonces:    nearauth.NewNonceValidator(),
		cipher:    cipher,
		kv:        kv,
		index:     accounts.NewIndex(kv),
		authz:     accounts.NewAuthorizations(kv),
		metrics:   metricsService,
	}
}

// WithNonceValidator swaps the nonce validator, used by tests to pin the
// clock.
func (s *Service) WithNonceValidator(v *nearauth.NonceValidator) *Service {
	s.nonces = v
	return s
}

func credentialKey(accountID, platform, externalUserID string) string {
	return "token:" + accountID + ":" + platform + ":" + externalUserID
}

func rejected() nearauth.VerificationResult {
	return nearauth.VerificationResult{Valid: false, Error: genericAuthFailure}
}

// Authenticate validates the nonce, rebuilds the canonical payload and
// verifies the wallet signature. The result carries the account id only on
// full success; all rejection paths look identical to the caller.
func (s *Service) Authenticate(ctx context.Context, req nearauth.SignatureRequest) nearauth.VerificationResult {
	log := util.LogFromContext(ctx)

	if err := req.Validate(); err != nil {
		log.Warn().Err(err).Msg("Signature request rejected: missing field")
		s.metrics.ObserveAuthentication(false)
		return rejected()
	}

	nonce, err := s.nonces.Validate(req.Nonce)
	if err != nil {
		log.Warn().Err(err).Str("account_id", req.AccountID).Msg("Signature request rejected: invalid nonce")
		s.metrics.ObserveAuthentication(false)
		return rejected()
	}

	recipient := req.Recipient
	if recipient == "" {
		recipient = s.recipient
	}

	payload := nearauth.NewSignablePayload(req.Message, nonce, recipient, req.CallbackURL)
	if !nearauth.VerifySignature(req.PublicKey, req.Signature, payload) {
		log.Warn().Str("account_id", req.AccountID).Msg("Signature request rejected: signature verification failed")
		s.metrics.ObserveAuthentication(false)
		return rejected()
	}

	s.metrics.ObserveAuthentication(true)
	return nearauth.VerificationResult{Valid: true, AccountID: req.AccountID}
}

// StoreCredential encrypts the secret blob and persists it for the
// (account, platform, externalUserID) triple, then links the external
// account in the index. An existing credential is superseded wholesale.
func (s *Service) StoreCredential(ctx context.Context, accountID, platform, externalUserID string, secret []byte) error {
	envelope, err := s.cipher.Encrypt(secret)
	if err != nil {
		s.metrics.ObserveCredentialOperation("store", err)
		return errors.Wrap(err, "failed to encrypt credential")
	}

	if err := s.kv.Set(ctx, credentialKey(accountID, platform, externalUserID), []byte(envelope)); err != nil {
		s.metrics.ObserveCredentialOperation("store", err)
		return errors.Wrapf(ErrStoreUnavailable, "failed to persist credential: %v", err)
	}

	if err := s.index.Add(ctx, accountID, platform, externalUserID); err != nil {
		s.metrics.ObserveCredentialOperation("store", err)
		return errors.Wrapf(ErrStoreUnavailable, "failed to update account index: %v", err)
	}

	s.metrics.ObserveCredentialOperation("store", nil)
	return nil
}

// GetCredential fetches and decrypts the stored secret. Absence is the
// non-exceptional ErrNotFound; store failures surface as ErrStoreUnavailable
// and are never collapsed into a not-found.
func (s *Service) GetCredential(ctx context.Context, accountID, platform, externalUserID string) ([]byte, error) {
	envelope, err := s.kv.Get(ctx, credentialKey(accountID, platform, externalUserID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.ObserveCredentialOperation("get", nil)
			return nil, ErrNotFound
		}
		s.metrics.ObserveCredentialOperation("get", err)
		return nil, errors.Wrapf(ErrStoreUnavailable, "failed to fetch credential: %v", err)
	}

	secret, err := s.cipher.Decrypt(string(envelope))
	if err != nil {
		s.metrics.ObserveCredentialOperation("get", err)
		return nil, err
	}

	s.metrics.ObserveCredentialOperation("get", nil)
	return secret, nil
}

// RevokeCredential deletes the stored envelope and unlinks the external
// account. The two writes are one logical operation; a credential that
// never existed still gets its (idempotent) index removal and reports
// success.
func (s *Service) RevokeCredential(ctx context.Context, accountID, platform, externalUserID string) error {
	if err := s.kv.Delete(ctx, credentialKey(accountID, platform, externalUserID)); err != nil {
		s.metrics.ObserveCredentialOperation("revoke", err)
		return errors.Wrapf(ErrStoreUnavailable, "failed to delete credential: %v", err)
	}

	if err := s.index.Remove(ctx, accountID, platform, externalUserID); err != nil {
		s.metrics.ObserveCredentialOperation("revoke", err)
		return errors.Wrapf(ErrStoreUnavailable, "failed to update account index: %v", err)
	}

	s.metrics.ObserveCredentialOperation("revoke", nil)
	return nil
}

// ListConnectedAccounts returns the external accounts linked to the wallet
// account.
func (s *Service) ListConnectedAccounts(ctx context.Context, accountID string) ([]accounts.Entry, error) {
	entries, err := s.index.List(ctx, accountID)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "failed to list connected accounts: %v", err)
	}
	return entries, nil
}

// Authorize flags the wallet account as allowed to use the service.
func (s *Service) Authorize(ctx context.Context, accountID string) (accounts.AuthorizationRecord, error) {
	record, err := s.authz.Authorize(ctx, accountID)
	if err != nil {
		return accounts.AuthorizationRecord{}, errors.Wrapf(ErrStoreUnavailable, "failed to store authorization: %v", err)
	}
	return record, nil
}

// Unauthorize clears the service authorization flag.
func (s *Service) Unauthorize(ctx context.Context, accountID string) error {
	if err := s.authz.Unauthorize(ctx, accountID); err != nil {
		return errors.Wrapf(ErrStoreUnavailable, "failed to clear authorization: %v", err)
	}
	return nil
}

// AuthorizationStatus returns the account's current authorization record.
func (s *Service) AuthorizationStatus(ctx context.Context, accountID string) (accounts.AuthorizationRecord, error) {
	record, err := s.authz.Status(ctx, accountID)
	if err != nil {
		return accounts.AuthorizationRecord{}, errors.Wrapf(ErrStoreUnavailable, "failed to read authorization: %v", err)
	}
	return record, nil
}
