package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap keeps the suite fast; production uses DefaultParams.
var cheap = Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	for _, pw := range []string{"secretpw1", "other1234", "пароль-пароль", strings.Repeat("x", 255)} {
		hash, err := HashPasswordWithParams([]byte(pw), cheap)
		require.NoError(t, err)

		ok, err := VerifyPassword([]byte(pw), hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q must verify", pw)
	}
}

func TestHashPassword_NeverEqualsInput(t *testing.T) {
	pw := "secretpw1"
	hash, err := HashPasswordWithParams([]byte(pw), cheap)
	require.NoError(t, err)

	assert.NotEqual(t, pw, hash)
	assert.NotContains(t, hash, pw)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"), hash)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPasswordWithParams([]byte("secretpw1"), cheap)
	require.NoError(t, err)
	b, err := HashPasswordWithParams([]byte("secretpw1"), cheap)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same input must produce different credentials")
}

func TestHashPassword_DefaultParams(t *testing.T) {
	hash, err := HashPassword([]byte("secretpw1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"), hash)

	ok, err := VerifyPassword([]byte("secretpw1"), hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_WrongSecret(t *testing.T) {
	hash, err := HashPasswordWithParams([]byte("secretpw1"), cheap)
	require.NoError(t, err)

	ok, err := VerifyPassword([]byte("secretpw2"), hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_InvalidEncoding(t *testing.T) {
	valid, err := HashPasswordWithParams([]byte("secretpw1"), cheap)
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	tests := map[string]string{
		"empty":          "",
		"plaintext":      "secretpw1",
		"bcrypt":         "$2a$10$abcdefghijklmnopqrstuv",
		"wrong version":  strings.Join([]string{"", "argon2id", "v=16", parts[3], parts[4], parts[5]}, "$"),
		"bad params":     strings.Join([]string{"", "argon2id", parts[2], "m=x,t=1,p=1", parts[4], parts[5]}, "$"),
		"zero params":    strings.Join([]string{"", "argon2id", parts[2], "m=0,t=0,p=0", parts[4], parts[5]}, "$"),
		"bad salt":       strings.Join([]string{"", "argon2id", parts[2], parts[3], "!!!", parts[5]}, "$"),
		"empty key":      strings.Join([]string{"", "argon2id", parts[2], parts[3], parts[4], ""}, "$"),
		"argon2i prefix": strings.Replace(valid, "argon2id", "argon2i", 1),
	}

	for name, enc := range tests {
		t.Run(name, func(t *testing.T) {
			ok, err := VerifyPassword([]byte("secretpw1"), enc)
			assert.ErrorIs(t, err, ErrInvalidHash)
			assert.False(t, ok)
		})
	}
}
