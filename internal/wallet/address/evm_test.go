package address_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestParse(t *testing.T) {
	t.Run("checksummed", func(t *testing.T) {
		addr, err := address.Parse(checksummed)
		require.NoError(t, err)
		assert.Equal(t, checksummed, address.Checksum(addr))
	})

	t.Run("lowercase", func(t *testing.T) {
		addr, err := address.Parse("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
		require.NoError(t, err)
		assert.Equal(t, checksummed, addr.Hex())
	})

	t.Run("uppercase", func(t *testing.T) {
		addr, err := address.Parse("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
		require.NoError(t, err)
		assert.Equal(t, checksummed, addr.Hex())
	})

	invalid := map[string]string{
		"bad_checksum": "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"no_prefix":    "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"too_short":    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA",
		"too_long":     "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00",
		"not_hex":      "0xZZAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"empty":        "",
		"only_prefix":  "0x",
	}
	for name, input := range invalid {
		input := input
		t.Run(name, func(t *testing.T) {
			_, err := address.Parse(input)
			require.Error(t, err)

			var addrErr errs.InvalidAddressError
			require.True(t, errors.As(err, &addrErr))
			assert.Equal(t, input, addrErr.Input)
		})
	}
}

func TestFromPrivateKey(t *testing.T) {
	key, err := crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)

	addr, err := address.FromPrivateKey(key)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addr)

	_, err = address.FromPrivateKey(nil)
	assert.Error(t, err)
}
