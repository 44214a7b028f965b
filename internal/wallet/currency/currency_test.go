package currency_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/wallet/currency"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()

	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestFormatEther(t *testing.T) {
	tests := map[string]string{
		"1500000000000000000":            "1.5",
		"1000000000000000000":            "1",
		"0":                              "0",
		"1":                              "0.000000000000000001",
		"123456789012345678901234567":    "123456789.012345678901234567",
		"100000000000000000000000000000": "100000000000",
	}

	for wei, ether := range tests {
		assert.Equal(t, ether, currency.FormatEther(mustBig(t, wei)), wei)
	}
	assert.Equal(t, "0", currency.FormatEther(nil))
}

func TestParseWei(t *testing.T) {
	wei, err := currency.ParseWei("1000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wei.Int64())

	huge := "115792089237316195423570985008687907853269984665640564039457584007913129639936"
	wei, err = currency.ParseWei(huge)
	require.NoError(t, err)
	assert.Equal(t, huge, wei.String())

	wei, err = currency.ParseWei(" 0 ")
	require.NoError(t, err)
	assert.Zero(t, wei.Sign())

	for _, input := range []string{"", "-1", "1.5", "1e18", "0x10", "ten"} {
		_, err := currency.ParseWei(input)
		assert.Error(t, err, input)
	}
}
