package shareable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestRoundTrip(t *testing.T) {
	c, err := NewCodec(testKey)
	require.NoError(t, err)

	token, err := c.Encode("acc-123")
	require.NoError(t, err)
	assert.NotContains(t, token, "acc-123")
	assert.False(t, strings.ContainsAny(token, "+/="), "token must be URL safe")

	got, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", got)
}

func TestEncodeIsRandomized(t *testing.T) {
	c, err := NewCodec(testKey)
	require.NoError(t, err)

	a, err := c.Encode("acc-123")
	require.NoError(t, err)
	b, err := c.Encode("acc-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c, err := NewCodec(testKey)
	require.NoError(t, err)

	for _, token := range []string{"", "not base64!!", "c2hvcnQ"} {
		_, err := c.Decode(token)
		assert.ErrorIs(t, err, ErrMalformed, token)
	}
}

func TestDecodeRejectsOtherKey(t *testing.T) {
	a, err := NewCodec(testKey)
	require.NoError(t, err)
	b, err := NewCodec(strings.Repeat("ab", 32))
	require.NoError(t, err)

	token, err := a.Encode("acc-123")
	require.NoError(t, err)

	_, err = b.Decode(token)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodec_InvalidKey(t *testing.T) {
	_, err := NewCodec("zz")
	assert.Error(t, err)
	_, err = NewCodec("0011")
	assert.Error(t, err)
}
