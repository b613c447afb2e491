package token

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationCode_TenDigitsNoLeadingZero(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 10)
		assert.NotEqual(t, byte('0'), code[0])

		n, err := strconv.ParseInt(code, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(codeMin))
		assert.Less(t, n, int64(codeMin+codeSpan))
	}
}

func TestNewVerificationCode_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}
