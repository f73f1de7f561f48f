package accounts

import (
	"context"
	"encoding/json"

	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/pkg/errors"
)

// Entry is one linked external account. Uniqueness is on the whole pair
// within a wallet account's set.
type Entry struct {
	Platform       string `json:"platform"`
	ExternalUserID string `json:"external_user_id"`
}

// Index answers "which external accounts has wallet account X linked"
// without scanning the credential store. The value per account is the full
// entry set; mutations replace it wholesale through the store's atomic
// Update, so concurrent linking on the same account cannot lose entries.
type Index struct {
	kv storage.KV
}

func NewIndex(kv storage.KV) *Index {
	return &Index{kv: kv}
}

func indexKey(accountID string) string {
	return "index:" + accountID
}

func decodeEntries(data []byte) ([]Entry, error) {
	if data == nil {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal index entries")
	}
	return entries, nil
}

// Add upserts the pair into the account's entry set. Adding an existing
// pair is a no-op.
func (i *Index) Add(ctx context.Context, accountID, platform, externalUserID string) error {
	entry := Entry{Platform: platform, ExternalUserID: externalUserID}

	return i.kv.Update(ctx, indexKey(accountID), func(current []byte) ([]byte, error) {
		entries, err := decodeEntries(current)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			if e == entry {
				return current, nil
			}
		}

		next, err := json.Marshal(append(entries, entry))
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal index entries")
		}
		return next, nil
	})
}

// Remove drops the pair from the set. Absence is not an error; removing the
// last entry deletes the index key.
func (i *Index) Remove(ctx context.Context, accountID, platform, externalUserID string) error {
	entry := Entry{Platform: platform, ExternalUserID: externalUserID}

	return i.kv.Update(ctx, indexKey(accountID), func(current []byte) ([]byte, error) {
		entries, err := decodeEntries(current)
		if err != nil {
			return nil, err
		}

		kept := entries[:0]
		for _, e := range entries {
			if e != entry {
				kept = append(kept, e)
			}
		}

		if len(kept) == len(entries) {
			return current, nil
		}
		if len(kept) == 0 {
			return nil, nil
		}

		next, err := json.Marshal(kept)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal index entries")
		}
		return next, nil
	})
}

// List returns the current entry set, empty for accounts that never linked
// anything.
func (i *Index) List(ctx context.Context, accountID string) ([]Entry, error) {
	data, err := i.kv.Get(ctx, indexKey(accountID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
