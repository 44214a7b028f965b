package chain_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/test"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

func sepolia(t *testing.T) chain.Network {
	t.Helper()

	network, err := chain.ParseNetwork("sepolia")
	require.NoError(t, err)
	return network
}

func TestDial(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		srv := test.NewRPCServer(t, map[string]any{"eth_chainId": "0xaa36a7"})

		client, err := chain.Dial(t.Context(), chain.Endpoint{RPCURL: srv.URL, Network: sepolia(t)})
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, int64(11155111), client.ChainID().Int64())
	})

	t.Run("chain_id_mismatch", func(t *testing.T) {
		srv := test.NewRPCServer(t, map[string]any{"eth_chainId": "0x1"})

		_, err := chain.Dial(t.Context(), chain.Endpoint{RPCURL: srv.URL, Network: sepolia(t)})
		require.Error(t, err)

		var cfgErr errs.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "CHAIN_ID", cfgErr.Key)
	})

	t.Run("rpc_failure", func(t *testing.T) {
		srv := test.NewRPCServer(t, map[string]any{})

		_, err := chain.Dial(t.Context(), chain.Endpoint{RPCURL: srv.URL, Network: sepolia(t)})
		require.Error(t, err)

		var transportErr errs.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "eth_chainId", transportErr.Op)
		assert.Equal(t, int64(1), srv.Hits())
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := chain.Dial(t.Context(), chain.Endpoint{RPCURL: url, Network: sepolia(t)})
		var transportErr errs.TransportError
		require.True(t, errors.As(err, &transportErr))
	})

	t.Run("missing_settings", func(t *testing.T) {
		var cfgErr errs.ConfigurationError

		_, err := chain.Dial(t.Context(), chain.Endpoint{Network: sepolia(t)})
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "RPC_URL", cfgErr.Key)

		_, err = chain.Dial(t.Context(), chain.Endpoint{RPCURL: "http://127.0.0.1:1"})
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "CHAIN_ID", cfgErr.Key)
	})
}

func TestReader(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		reader := c.Client.Reader()

		balance, err := reader.BalanceAt(t.Context(), c.FundedAddr)
		require.NoError(t, err)
		assert.Equal(t, 0, balance.Cmp(test.FundedBalanceWei))

		gas, err := reader.EstimateTransferGas(t.Context(), c.FundedAddr, test.RandomAddress(t), big.NewInt(1000))
		require.NoError(t, err)
		assert.Equal(t, uint64(chain.TransferGasLimit), gas)

		assert.Zero(t, c.Spy.Calls(test.MethodSendTransaction))
	})
}

func TestReaderTransportError(t *testing.T) {
	spy := test.NewSpyBackend(nil)
	spy.FailWith(test.MethodBalanceAt, errors.New("connection refused"))
	client := chain.NewClient(spy, big.NewInt(1))

	_, err := client.Reader().BalanceAt(t.Context(), common.Address{})
	require.Error(t, err)

	var transportErr errs.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "eth_getBalance", transportErr.Op)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTransactorRequiresKey(t *testing.T) {
	client := chain.NewClient(test.NewSpyBackend(nil), big.NewInt(1))

	var cfgErr errs.ConfigurationError

	_, err := client.Transactor(nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "PRIVATE_KEY", cfgErr.Key)

	var nilKey *secret.Key
	_, err = client.Transactor(nilKey)
	require.True(t, errors.As(err, &cfgErr))

	key, err := secret.ParseHex("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	key.Release()
	_, err = client.Transactor(key)
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, secret.ErrReleased)
}

func TestTransactorTransfer(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		transactor, err := c.Client.Transactor(c.FundedKey(t))
		require.NoError(t, err)
		assert.Equal(t, c.FundedAddr, transactor.Address())

		to := test.RandomAddress(t)
		transfer, err := transactor.Transfer(t.Context(), to, big.NewInt(1000))
		require.NoError(t, err)

		assert.NotEqual(t, common.Hash{}, transfer.TxHash)
		assert.Equal(t, uint64(0), transfer.Nonce)
		assert.Equal(t, uint64(chain.TransferGasLimit), transfer.GasLimit)
		require.NotNil(t, transfer.GasFeeCap)
		require.NotNil(t, transfer.GasTipCap)
		assert.Nil(t, transfer.GasPrice)
		assert.Equal(t, 1, c.Spy.Calls(test.MethodSendTransaction))

		c.Backend.Commit()

		receipt, err := c.Backend.Client().TransactionReceipt(t.Context(), transfer.TxHash)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), receipt.Status)

		balance, err := c.Client.Reader().BalanceAt(t.Context(), to)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), balance.Int64())
	})
}

func TestTransactorBroadcastFailure(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		c.Spy.FailWith(test.MethodSendTransaction, errors.New("nonce too low"))

		transactor, err := c.Client.Transactor(c.FundedKey(t))
		require.NoError(t, err)

		_, err = transactor.Transfer(t.Context(), test.RandomAddress(t), big.NewInt(1))
		var transportErr errs.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "eth_sendRawTransaction", transportErr.Op)
	})
}

func TestFeeCap(t *testing.T) {
	assert.Equal(t, int64(25), chain.FeeCap(big.NewInt(10), big.NewInt(5)).Int64())
}

func TestReaderTransactionStatus(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		transactor, err := c.Client.Transactor(c.FundedKey(t))
		require.NoError(t, err)

		to := test.RandomAddress(t)
		transfer, err := transactor.Transfer(t.Context(), to, big.NewInt(1000))
		require.NoError(t, err)

		reader := c.Client.Reader()

		status, err := reader.TransactionStatus(t.Context(), transfer.TxHash)
		require.NoError(t, err)
		assert.Equal(t, chain.TxStatePending, status.State)
		assert.Equal(t, c.FundedAddr.Hex(), status.From)
		assert.Equal(t, to.Hex(), status.To)
		assert.Nil(t, status.BlockNumber)

		c.Backend.Commit()

		status, err = reader.TransactionStatus(t.Context(), transfer.TxHash)
		require.NoError(t, err)
		assert.Equal(t, chain.TxStateSuccess, status.State)
		assert.Equal(t, transfer.TxHash.Hex(), status.TxHash)
		assert.Equal(t, int64(1000), status.ValueWei.Int64())
		assert.Equal(t, int64(1), status.BlockNumber.Int64())
		assert.Equal(t, uint64(chain.TransferGasLimit), status.GasUsed)

		_, err = reader.TransactionStatus(t.Context(), common.HexToHash("0x01"))
		assert.ErrorIs(t, err, chain.ErrTxNotFound)
	})
}

func TestReaderTransactionStatusTransportError(t *testing.T) {
	test.WithTestChain(t, func(c *test.TestChain) {
		c.Spy.FailWith(test.MethodTransactionByHash, errors.New("i/o timeout"))

		_, err := c.Client.Reader().TransactionStatus(t.Context(), common.HexToHash("0x01"))
		var transportErr errs.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "eth_getTransactionByHash", transportErr.Op)
	})
}
