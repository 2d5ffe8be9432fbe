package credentials_test

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/spectrelabs/authgate/internal/gate/credentials"
)

func TestVerifyCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := credentials.NewMemorySource()
	require.NoError(t, src.Add("alice", "hunter2", "admin", "user"))

	t.Run("correct password", func(t *testing.T) {
		user, ok := src.VerifyCredentials(ctx, "alice", "hunter2")
		require.True(t, ok)
		require.Equal(t, "alice", user.ID)
		require.Equal(t, []string{"admin", "user"}, user.Roles)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, ok := src.VerifyCredentials(ctx, "alice", "wrong")
		require.False(t, ok)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, ok := src.VerifyCredentials(ctx, "bob", "hunter2")
		require.False(t, ok)
	})
}

func TestTOTPEnrollment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := credentials.NewMemorySource()
	require.NoError(t, src.Add("alice", "hunter2"))

	require.False(t, src.RequiresTOTP(ctx, "alice"))

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "authgate", AccountName: "alice"})
	require.NoError(t, err)
	require.True(t, src.EnrollTOTP("alice", key.Secret()))
	require.False(t, src.EnrollTOTP("nobody", key.Secret()))

	require.True(t, src.RequiresTOTP(ctx, "alice"))

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	require.True(t, src.VerifyTOTP(ctx, "alice", code))
	require.False(t, src.VerifyTOTP(ctx, "alice", "000000"))
	require.False(t, src.VerifyTOTP(ctx, "bob", code))
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("users with and without roles", func(t *testing.T) {
		src, err := credentials.ParseSeed("alice:hunter2:admin|user, bob:secret")
		require.NoError(t, err)

		user, ok := src.VerifyCredentials(ctx, "alice", "hunter2")
		require.True(t, ok)
		require.Equal(t, []string{"admin", "user"}, user.Roles)

		user, ok = src.VerifyCredentials(ctx, "bob", "secret")
		require.True(t, ok)
		require.Empty(t, user.Roles)
	})

	t.Run("empty seed yields empty source", func(t *testing.T) {
		src, err := credentials.ParseSeed("")
		require.NoError(t, err)
		_, ok := src.VerifyCredentials(ctx, "anyone", "anything")
		require.False(t, ok)
	})

	t.Run("malformed entries error without leaking passwords", func(t *testing.T) {
		_, err := credentials.ParseSeed("justausername")
		require.Error(t, err)

		_, err = credentials.ParseSeed(":supersecret")
		require.Error(t, err)
		require.NotContains(t, err.Error(), "supersecret")
	})
}
