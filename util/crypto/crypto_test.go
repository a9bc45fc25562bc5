package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAsBcrypt(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("SuperDifficultPassword1")
	require.NoError(t, err)
	assert.NotEqual(t, "SuperDifficultPassword1", hash)
	assert.True(t, CheckPasswordHash(hash, "SuperDifficultPassword1"))
	assert.False(t, CheckPasswordHash(hash, "wrong"))
	assert.False(t, CheckPasswordHash("not-a-hash", "SuperDifficultPassword1"))
}
