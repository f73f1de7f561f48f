package accounts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/pkg/errors"
)

// AuthorizationRecord is the coarse "this wallet account may use the
// service" flag, independent of any stored credential.
type AuthorizationRecord struct {
	Authorized bool            `json:"authorized"`
	Timestamp  strfmt.DateTime `json:"timestamp"`
}

// Authorizations persists AuthorizationRecords keyed by wallet account.
type Authorizations struct {
	kv  storage.KV
	now func() time.Time
}

func NewAuthorizations(kv storage.KV) *Authorizations {
	return &Authorizations{kv: kv, now: time.Now}
}

func authorizationKey(accountID string) string {
	return "authz:" + accountID
}

// Authorize flags the account, stamping the decision time.
func (a *Authorizations) Authorize(ctx context.Context, accountID string) (AuthorizationRecord, error) {
	record := AuthorizationRecord{
		Authorized: true,
		Timestamp:  strfmt.DateTime(a.now().UTC()),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return AuthorizationRecord{}, errors.Wrap(err, "failed to marshal authorization record")
	}
	if err := a.kv.Set(ctx, authorizationKey(accountID), data); err != nil {
		return AuthorizationRecord{}, err
	}
	return record, nil
}

// Unauthorize clears the flag. Clearing an unknown account is a no-op.
func (a *Authorizations) Unauthorize(ctx context.Context, accountID string) error {
	return a.kv.Delete(ctx, authorizationKey(accountID))
}

// Status returns the stored record, or an unauthorized zero record for
// accounts that were never flagged.
func (a *Authorizations) Status(ctx context.Context, accountID string) (AuthorizationRecord, error) {
	data, err := a.kv.Get(ctx, authorizationKey(accountID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AuthorizationRecord{Authorized: false}, nil
		}
		return AuthorizationRecord{}, err
	}

	var record AuthorizationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return AuthorizationRecord{}, errors.Wrap(err, "failed to unmarshal authorization record")
	}
	return record, nil
}
