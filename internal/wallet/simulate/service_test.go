package simulate_test

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/test"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
	"github.com/chapool/wallet-agent/internal/wallet/simulate"
)

func TestSimulateTransfer(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		key := c.FundedKey(t)
		svc := simulate.NewService(c.Client.Reader())

		res := svc.Simulate(t.Context(), &chain.TransferRequest{
			From:     c.FundedAddr,
			To:       test.RandomAddress(t),
			ValueWei: big.NewInt(1000),
		}, key)

		require.True(t, res.OK, res.Error)
		assert.Empty(t, res.Error)
		assert.Equal(t, int64(chain.TransferGasLimit), res.EstimatedGas.Int64())
		require.NoError(t, res.Err())

		assert.Equal(t, 1, c.Spy.Calls(test.MethodEstimateGas))
		assert.Equal(t, 0, c.Spy.Calls(test.MethodSendTransaction))
		assert.Empty(t, c.Spy.SentTransactions())
	})
}

func TestSimulateEstimateFailureIsData(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		c.Spy.FailWith(test.MethodEstimateGas, errors.New("insufficient funds for gas * price + value"))
		svc := simulate.NewService(c.Client.Reader())

		res := svc.Simulate(t.Context(), &chain.TransferRequest{
			To:       test.RandomAddress(t),
			ValueWei: big.NewInt(1),
		}, c.FundedKey(t))

		assert.False(t, res.OK)
		assert.Nil(t, res.EstimatedGas)
		assert.Contains(t, res.Error, "insufficient funds")
		assert.Equal(t, 0, c.Spy.Calls(test.MethodSendTransaction))

		var simErr errs.SimulationError
		require.True(t, errors.As(res.Err(), &simErr))
		assert.Equal(t, res.Error, simErr.Reason)
	})
}

func TestSimulateExceedingBalance(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		svc := simulate.NewService(c.Client.Reader())
		tooMuch := new(big.Int).Add(test.FundedBalanceWei, big.NewInt(1))

		res := svc.Simulate(t.Context(), &chain.TransferRequest{
			To:       test.RandomAddress(t),
			ValueWei: tooMuch,
		}, c.FundedKey(t))

		assert.False(t, res.OK)
		assert.NotEmpty(t, res.Error)
		assert.Equal(t, 0, c.Spy.Calls(test.MethodSendTransaction))
	})
}

func TestSimulateInvalidInput(t *testing.T) {
	c := test.NewTestChain(t)
	key := c.FundedKey(t)
	svc := simulate.NewService(c.Client.Reader())

	res := svc.Simulate(t.Context(), nil, key)
	assert.False(t, res.OK)

	res = svc.Simulate(t.Context(), &chain.TransferRequest{ValueWei: big.NewInt(1)}, nil)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "PRIVATE_KEY")

	var nilKey *secret.Key
	res = svc.Simulate(t.Context(), &chain.TransferRequest{ValueWei: big.NewInt(1)}, nilKey)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "PRIVATE_KEY")

	released, err := secret.ParseHex("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	released.Release()
	res = svc.Simulate(t.Context(), &chain.TransferRequest{ValueWei: big.NewInt(1)}, released)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "released")

	res = svc.Simulate(t.Context(), &chain.TransferRequest{ValueWei: big.NewInt(-1)}, key)
	assert.False(t, res.OK)

	assert.Equal(t, 0, c.Spy.TotalCalls())
}
