package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("contraseña-segura-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("contraseña-segura-123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("otra-contraseña", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltAleatorio(t *testing.T) {
	h1, err := HashPassword("misma")
	require.NoError(t, err)
	h2, err := HashPassword("misma")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordHashInvalido(t *testing.T) {
	_, err := VerifyPassword("lo-que-sea", "no-es-un-hash")
	assert.Error(t, err)
}

func TestIsArgon2Hash(t *testing.T) {
	hash, err := HashPassword("abc123xyz")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))
	assert.False(t, IsArgon2Hash("texto plano"))
	assert.False(t, IsArgon2Hash(""))
}
