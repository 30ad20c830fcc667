package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasanvivian/solepos/internal/db"
)

func TestTokenRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)))

	revoked, err = IsTokenRevoked(ctx, database, "some-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Revoking twice is a no-op.
	require.NoError(t, RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)))
}

func TestRevokeTokenPrunesExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, database, "expired-jti", time.Now().Add(-time.Hour)))

	// Any later revocation sweeps out already-expired entries.
	require.NoError(t, RevokeToken(ctx, database, "live-jti", time.Now().Add(time.Hour)))

	revoked, err := IsTokenRevoked(ctx, database, "expired-jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
