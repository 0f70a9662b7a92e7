package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCipherRoundTrip(t *testing.T) {
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)

	secret := `{"api_key":"sk-verysecret"}`
	token, err := cipher.Encrypt([]byte(secret))
	require.NoError(t, err)
	assert.NotContains(t, token, "verysecret")

	plaintext, err := cipher.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, secret, string(plaintext))
}

func TestCipherNonceUniqueness(t *testing.T) {
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)

	a, err := cipher.Encrypt([]byte("same payload"))
	require.NoError(t, err)
	b, err := cipher.Encrypt([]byte("same payload"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipherRejectsBadKey(t *testing.T) {
	_, err := NewCipher("short")
	assert.Error(t, err)

	_, err = NewCipher(strings.Repeat("k", 33))
	assert.Error(t, err)
}

func TestCipherRejectsTamperedCiphertext(t *testing.T) {
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)

	token, err := cipher.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = cipher.Decrypt("not-base64!!")
	assert.Error(t, err)

	other, err := NewCipher(strings.Repeat("x", 32))
	require.NoError(t, err)
	_, err = other.Decrypt(token)
	assert.Error(t, err)
}
