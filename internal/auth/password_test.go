package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast
var testHasher = NewHasher(Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

func TestHashAndVerify(t *testing.T) {
	for _, pw := range []string{"hunter2", "", "pässwörd with spaces", strings.Repeat("x", 512)} {
		hash, err := testHasher.Hash(pw)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
		assert.True(t, testHasher.Verify(pw, hash), "password %q should verify", pw)
		assert.False(t, testHasher.Verify(pw+"!", hash))
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := testHasher.Hash("same")
	require.NoError(t, err)
	b, err := testHasher.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, testHasher.Verify("same", a))
	assert.True(t, testHasher.Verify("same", b))
}

func TestVerifyUsesParamsFromHash(t *testing.T) {
	hash, err := testHasher.Hash("secret")
	require.NoError(t, err)

	// the default hasher must honour the cost recorded in the hash
	assert.True(t, VerifyPassword("secret", hash))
}

func TestPackageLevelHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("correct horse", hash))
	assert.False(t, VerifyPassword("battery staple", hash))
}

func TestVerifyMalformedHashes(t *testing.T) {
	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$2a$10$short",
	} {
		assert.False(t, testHasher.Verify("anything", bad), "hash %q", bad)
	}
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("old-password", string(legacy)))
	assert.False(t, VerifyPassword("new-password", string(legacy)))
}
