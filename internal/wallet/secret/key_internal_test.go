package secret

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipe(t *testing.T) {
	key, err := crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)

	words := key.D.Bits()
	words = words[:cap(words)]
	require.NotEmpty(t, words)

	wipe(key)

	for i, w := range words {
		assert.Zero(t, w, "word %d", i)
	}
	assert.Zero(t, key.D.Sign())

	wipe(nil)
}

func TestReleaseClearsRaw(t *testing.T) {
	key, err := ParseHex("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)

	raw := key.raw
	require.Len(t, raw, 32)

	key.Release()

	assert.Equal(t, make([]byte, 32), raw)
	assert.Nil(t, key.raw)
}
