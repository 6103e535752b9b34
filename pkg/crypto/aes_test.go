package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestKeyFromHex(t *testing.T) {
	key, err := KeyFromHex(testKeyHex)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = KeyFromHex("zz")
	assert.Error(t, err)

	_, err = KeyFromHex("0011")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestEncryptDecrypt(t *testing.T) {
	key, err := KeyFromHex(testKeyHex)
	require.NoError(t, err)

	a, err := Encrypt(key, "paciente apto")
	require.NoError(t, err)
	b, err := Encrypt(key, "paciente apto")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per call")

	got, err := Decrypt(key, a)
	require.NoError(t, err)
	assert.Equal(t, "paciente apto", got)

	other := make([]byte, 32)
	_, err = Decrypt(other, a)
	assert.Error(t, err)

	_, err = Decrypt(key, "AAAA")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	_, err = Encrypt([]byte("short"), "x")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSealer(t *testing.T) {
	plain, err := NewSealer("")
	require.NoError(t, err)
	assert.False(t, plain.Enabled())
	s, err := plain.Seal("nota")
	require.NoError(t, err)
	assert.Equal(t, "nota", s)

	sealer, err := NewSealer(testKeyHex)
	require.NoError(t, err)
	sealed, err := sealer.Seal("nota")
	require.NoError(t, err)
	assert.False(t, strings.Contains(sealed, "nota"))
	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "nota", opened)

	_, err = NewSealer("abc")
	assert.Error(t, err)
}
