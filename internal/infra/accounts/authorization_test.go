package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationLifecycle(t *testing.T) {
	ctx := context.Background()
	authz := NewAuthorizations(storage.NewMemoryKV())
	authz.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	status, err := authz.Status(ctx, "alice.near")
	require.NoError(t, err)
	assert.False(t, status.Authorized)

	record, err := authz.Authorize(ctx, "alice.near")
	require.NoError(t, err)
	assert.True(t, record.Authorized)
	assert.Equal(t, "2026-08-31T12:00:00.000Z", record.Timestamp.String())

	status, err = authz.Status(ctx, "alice.near")
	require.NoError(t, err)
	assert.True(t, status.Authorized)
	assert.Equal(t, record.Timestamp.String(), status.Timestamp.String())

	require.NoError(t, authz.Unauthorize(ctx, "alice.near"))
	require.NoError(t, authz.Unauthorize(ctx, "alice.near")) // idempotent

	status, err = authz.Status(ctx, "alice.near")
	require.NoError(t, err)
	assert.False(t, status.Authorized)
}
