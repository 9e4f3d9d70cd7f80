package descriptor

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		c, err := Decode("")
		require.NoError(t, err)
		assert.Empty(t, c)
	})

	t.Run("NotMultipleOfWidth", func(t *testing.T) {
		for _, n := range []int{1, 16, 31, 33, 63, 65, 100} {
			blob := base64.StdEncoding.EncodeToString(make([]byte, n))
			_, err := Decode(blob)
			require.Error(t, err, "length %d", n)
			assert.ErrorIs(t, err, ErrMalformed)

			var me *MalformedError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, n, me.Len)
		}
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := Decode("!!not base64!!")
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Multiple", func(t *testing.T) {
		raw := make([]byte, 3*Width)
		for i := range raw {
			raw[i] = byte(i)
		}
		c, err := Decode(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		require.Len(t, c, 3)
		assert.Equal(t, byte(0), c[0][0])
		assert.Equal(t, byte(Width), c[1][0])
		assert.Equal(t, byte(2*Width+Width-1), c[2][Width-1])
	})

	t.Run("Unpadded", func(t *testing.T) {
		raw := make([]byte, Width)
		raw[0] = 0xAB
		c, err := Decode(base64.RawStdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		require.Len(t, c, 1)
		assert.Equal(t, byte(0xAB), c[0][0])
	})
}

func TestEncodeDecode(t *testing.T) {
	c := Collection{{1, 2, 3}, {4, 5, 6}}
	got, err := Decode(Encode(c))
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, int64(2*Width), got.SizeBytes())
}

func TestFromBytes_DoesNotAlias(t *testing.T) {
	raw := make([]byte, Width)
	c, err := FromBytes(raw)
	require.NoError(t, err)

	raw[0] = 0xFF
	assert.Equal(t, byte(0), c[0][0])
}
