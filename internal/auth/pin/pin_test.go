package pin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bankbuddy/pkg/domain-errors"
)

func TestHash(t *testing.T) {
	t.Run("rejects malformed pins", func(t *testing.T) {
		for _, input := range []string{"", "123", "1234567", "12a4", "abcd"} {
			_, err := Hash(input)
			require.Error(t, err, "input %q", input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("produces verifiable hash", func(t *testing.T) {
		hash, err := Hash("1234")
		require.NoError(t, err)
		assert.NotEqual(t, "1234", hash)
		assert.NoError(t, NewVerifier().Verify("1234", hash))
	})
}

func TestVerify(t *testing.T) {
	hash, err := Hash("4321")
	require.NoError(t, err)

	t.Run("wrong pin is unauthorized", func(t *testing.T) {
		err := NewVerifier().Verify("1111", hash)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage hash is not unauthorized", func(t *testing.T) {
		err := NewVerifier().Verify("4321", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.False(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
