package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/internal/gate/store/drivers/memory"
	"github.com/spectrelabs/authgate/pkg/jwtx"
)

func newAuthService(t *testing.T, ttl time.Duration) *service.AuthService {
	t.Helper()

	codec, err := jwtx.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	return &service.AuthService{
		Codec:       codec,
		Revocations: memory.NewStore(),
		Issuer:      "authgate",
		TokenTTL:    ttl,
	}
}

func TestIssueThenValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	token, issued, err := svc.Issue("alice", []string{"admin"}, map[string]any{"team": "ops"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"admin"}, claims.Roles)
	require.Equal(t, "ops", claims.Extra["team"])
	require.Equal(t, issued.ID, claims.ID)
	require.Equal(t, "authgate", claims.Issuer)
}

func TestInvalidateThenValidateFailsRevoked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	token, _, err := svc.Issue("alice", []string{"admin"}, nil)
	require.NoError(t, err)

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.True(t, claims.HasRole("admin"))

	revoked, ok := svc.Invalidate(ctx, token)
	require.True(t, ok)
	require.Equal(t, "alice", revoked.Subject)

	_, err = svc.Validate(ctx, token)
	require.ErrorIs(t, err, jwtx.ErrRevoked)

	t.Run("idempotent", func(t *testing.T) {
		_, ok := svc.Invalidate(ctx, token)
		require.True(t, ok)
		_, err := svc.Validate(ctx, token)
		require.ErrorIs(t, err, jwtx.ErrRevoked)
	})
}

func TestInvalidateUndecodableIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	_, ok := svc.Invalidate(ctx, "not-a-token")
	require.False(t, ok)
	_, ok = svc.Invalidate(ctx, "")
	require.False(t, ok)

	other := newAuthService(t, time.Hour)
	other.Codec, _ = jwtx.NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	foreign, _, err := other.Issue("mallory", nil, nil)
	require.NoError(t, err)
	_, ok = svc.Invalidate(ctx, foreign)
	require.False(t, ok)
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, -time.Minute) // already expired at issuance

	token, _, err := svc.Issue("alice", nil, nil)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	// Same signing key, different issuer: the signature checks out but
	// the token belongs to another deployment.
	other := newAuthService(t, time.Hour)
	other.Issuer = "someone-else"

	foreign, _, err := other.Issue("alice", nil, nil)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, foreign)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestInvalidateExpiredTokenStillRecorded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, -time.Minute)

	token, _, err := svc.Issue("alice", nil, nil)
	require.NoError(t, err)

	// Logout of an already-expired token decodes past the expiry
	// failure and records the revocation.
	_, ok := svc.Invalidate(ctx, token)
	require.True(t, ok)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	token, _, err := svc.Issue("alice", []string{"user"}, map[string]any{"team": "ops"})
	require.NoError(t, err)

	fresh, claims, err := svc.Refresh(ctx, token)
	require.NoError(t, err)
	require.NotEqual(t, token, fresh)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"user"}, claims.Roles)
	require.Equal(t, "ops", claims.Extra["team"])

	t.Run("old token is revoked", func(t *testing.T) {
		_, err := svc.Validate(ctx, token)
		require.ErrorIs(t, err, jwtx.ErrRevoked)
	})

	t.Run("fresh token validates", func(t *testing.T) {
		_, err := svc.Validate(ctx, fresh)
		require.NoError(t, err)
	})

	t.Run("refresh of revoked token fails", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, token)
		require.ErrorIs(t, err, jwtx.ErrRevoked)
	})
}

func TestConcurrentLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newAuthService(t, time.Hour)

	token, _, err := svc.Issue("alice", nil, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Invalidate(ctx, token)
	}()
	svc.Invalidate(ctx, token)
	<-done

	_, err = svc.Validate(ctx, token)
	require.ErrorIs(t, err, jwtx.ErrRevoked)
}

func TestSweeperLifecycle(t *testing.T) {
	t.Parallel()

	rev := memory.NewStore()
	require.NoError(t, rev.Revoke(context.Background(), "stale", time.Now().Add(-time.Hour)))

	sweeper := service.NewSweeperService(rev, slog.Default(), 50*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	require.Eventually(t, func() bool {
		revoked, err := rev.IsRevoked(context.Background(), "stale")
		return err == nil && !revoked
	}, time.Second, 10*time.Millisecond)
}
