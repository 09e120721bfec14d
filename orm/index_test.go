package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeIdxKeyPacking(t *testing.T) {
	cases := map[string][][]byte{
		"single":      {[]byte("a")},
		"empty chunk": {[]byte("aaa"), []byte(""), []byte("c")},
		"binary":      {{0, 1, 0xFE}, []byte("vault")},
	}
	for testName, chunks := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := packNativeIdxKey(chunks)
			require.NoError(t, err)
			got, err := unpackNativeIdxKey(key)
			require.NoError(t, err)
			assert.Equal(t, chunks, got)
		})
	}
}

func TestNativeIdxKeyLayout(t *testing.T) {
	key, err := packNativeIdxKey([][]byte{[]byte("aaa"), []byte(""), []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, []byte("_x.\x03aaa\x00\x01c"), key)
}

func TestNativeIdxKeyErrors(t *testing.T) {
	_, err := packNativeIdxKey([][]byte{make([]byte, 255)})
	assert.Error(t, err)

	_, err = unpackNativeIdxKey([]byte("xx"))
	assert.Error(t, err)
	_, err = unpackNativeIdxKey([]byte("_y.\x01a"))
	assert.Error(t, err)
	_, err = unpackNativeIdxKey([]byte("_x.\x05a"))
	assert.Error(t, err)
}
