package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordAndCompare(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Compare(hash, "correct horse"))
	assert.Error(t, v.Compare(hash, "wrong horse"))
}

func TestHashPassword_Rejects(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("short", 0)
	assert.Error(t, err)

	_, err = HashPassword("long enough", bcrypt.MaxCost+1)
	assert.Error(t, err)
}
