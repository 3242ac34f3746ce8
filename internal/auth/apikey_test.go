package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKeyRoundtrip(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Regexp(t, `^pb_live_[0-9a-f]{8}_[0-9a-f]{32}$`, key.Plaintext)
	assert.Len(t, key.KeyID, 8)
	assert.NotEmpty(t, key.SecretHash)

	keyID, secret, err := SplitAPIKey(key.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, key.KeyID, keyID)
	assert.True(t, VerifyAPIKeySecret(key.SecretHash, secret))
}

func TestVerifyAPIKeySecretRejectsTamper(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	_, secret, err := SplitAPIKey(key.Plaintext)
	require.NoError(t, err)
	assert.False(t, VerifyAPIKeySecret(key.SecretHash, secret+"x"))
	assert.False(t, VerifyAPIKeySecret(key.SecretHash, ""))
}

func TestSplitAPIKeyMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"pb_live_",
		"pb_live_short_secret",
		"pb_test_abcd1234_secret",
		"abcd1234_secret",
		"pb_live_abcd1234_",
	} {
		_, _, err := SplitAPIKey(in)
		assert.ErrorIs(t, err, ErrMalformedAPIKey, "input %q", in)
	}
}

func TestGeneratedKeysAreUnique(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, a.Plaintext, b.Plaintext)
	assert.NotEqual(t, a.KeyID, b.KeyID)
}
