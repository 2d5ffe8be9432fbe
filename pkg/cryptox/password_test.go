package cryptox_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectrelabs/authgate/pkg/cryptox"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong password", hash), cryptox.ErrMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("same input")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same input")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifyPassword("same input", a))
	require.NoError(t, cryptox.VerifyPassword("same input", b))
}

func TestVerifyPasswordRejectsGarbageHashes(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{
		"",
		"plainhash",
		"$bcrypt$v=19$m=1,t=1,p=1$abc$def",
		"$argon2id$v=18$m=1,t=1,p=1$abc$def",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$def",
	} {
		require.Error(t, cryptox.VerifyPassword("x", bad), "hash %q", bad)
	}
}
