package signer_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/wallet/secret"
	"github.com/chapool/wallet-agent/internal/wallet/signer"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var recipient = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func newSigner(t *testing.T) (signer.Service, *secret.Key) {
	t.Helper()

	key, err := secret.ParseHex(testKeyHex)
	require.NoError(t, err)
	t.Cleanup(key.Release)

	s, err := signer.NewService(key)
	require.NoError(t, err)
	return s, key
}

func TestSignEIP1559Transaction(t *testing.T) {
	s, key := newSigner(t)
	chainID := big.NewInt(11155111)

	resp, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:              chainID,
		To:                   recipient,
		Value:                big.NewInt(1000),
		GasLimit:             21000,
		MaxFeePerGas:         big.NewInt(2_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		Nonce:                7,
		FromAddress:          key.Address(),
	})
	require.NoError(t, err)

	tx := resp.Transaction
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, resp.TxHash, tx.Hash())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, 0, tx.Value().Cmp(big.NewInt(1000)))
	require.NotNil(t, tx.To())
	assert.Equal(t, recipient, *tx.To())

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), sender)

	decoded := new(types.Transaction)
	require.NoError(t, decoded.UnmarshalBinary(resp.RawTransaction))
	assert.Equal(t, tx.Hash(), decoded.Hash())
}

func TestSignLegacyTransaction(t *testing.T) {
	s, key := newSigner(t)

	resp, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:     big.NewInt(56),
		To:          recipient,
		Value:       big.NewInt(1),
		GasLimit:    21000,
		GasPrice:    big.NewInt(3_000_000_000),
		FromAddress: key.Address(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(types.LegacyTxType), resp.Transaction.Type())
	assert.Equal(t, 0, resp.Transaction.ChainId().Cmp(big.NewInt(56)))
}

func TestSignRejectsForeignFromAddress(t *testing.T) {
	s, _ := newSigner(t)

	_, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:              big.NewInt(1),
		To:                   recipient,
		Value:                big.NewInt(1),
		GasLimit:             21000,
		MaxFeePerGas:         big.NewInt(1),
		MaxPriorityFeePerGas: big.NewInt(1),
		FromAddress:          recipient,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from address does not match private key")
}

func TestSignAfterRelease(t *testing.T) {
	s, key := newSigner(t)
	key.Release()

	_, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:              big.NewInt(1),
		To:                   recipient,
		Value:                big.NewInt(1),
		MaxFeePerGas:         big.NewInt(1),
		MaxPriorityFeePerGas: big.NewInt(1),
		FromAddress:          key.Address(),
	})
	require.ErrorIs(t, err, secret.ErrReleased)
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := signer.NewService(nil)
	assert.Error(t, err)
}
