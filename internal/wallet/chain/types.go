package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the part of an Ethereum JSON-RPC client used by this package.
// It is satisfied by *ethclient.Client and by the simulated backend client.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Endpoint is the immutable connection setting for one invocation.
type Endpoint struct {
	RPCURL  string
	Network Network
}

// TransferRequest is a native token transfer to be simulated or sent.
type TransferRequest struct {
	From     common.Address
	To       common.Address
	ValueWei *big.Int
}

// Transfer describes a broadcast native token transfer.
type Transfer struct {
	TxHash    common.Hash
	From      common.Address
	To        common.Address
	ValueWei  *big.Int
	Nonce     uint64
	GasLimit  uint64
	GasFeeCap *big.Int // nil for legacy transactions
	GasTipCap *big.Int // nil for legacy transactions
	GasPrice  *big.Int // nil for EIP-1559 transactions
}

// Transaction states reported in TxStatus.
const (
	TxStatePending = "pending"
	TxStateSuccess = "success"
	TxStateFailed  = "failed"
)

// TxStatus describes a transaction looked up by hash.
type TxStatus struct {
	TxHash      string   `json:"txHash"`
	State       string   `json:"state"`
	From        string   `json:"from"`
	To          string   `json:"to,omitempty"` // empty for contract creation
	ValueWei    *big.Int `json:"valueWei"`
	Nonce       uint64   `json:"nonce"`
	BlockNumber *big.Int `json:"blockNumber,omitempty"`
	BlockHash   string   `json:"blockHash,omitempty"`
	GasUsed     uint64   `json:"gasUsed,omitempty"`
}
