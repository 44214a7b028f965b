package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

// ErrTxNotFound is returned when the node does not know a transaction hash.
var ErrTxNotFound = errors.New("transaction not found")

// Reader performs read-only queries against the chain.
type Reader struct {
	backend Backend
	chainID *big.Int
}

// BalanceAt 获取账户在最新区块的原生代币余额
func (r *Reader) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := r.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errs.NewTransportError("eth_getBalance", err)
	}

	return balance, nil
}

// EstimateTransferGas 估算原生代币转账的 Gas 用量，不会广播交易
func (r *Reader) EstimateTransferGas(ctx context.Context, from, to common.Address, valueWei *big.Int) (uint64, error) {
	return estimateTransferGas(ctx, r.backend, from, to, valueWei)
}

func estimateTransferGas(ctx context.Context, backend Backend, from, to common.Address, valueWei *big.Int) (uint64, error) {
	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: valueWei,
	})
	if err != nil {
		return 0, errs.NewTransportError("eth_estimateGas", err)
	}

	return gas, nil
}

// TransactionStatus 查询交易状态，未打包的交易返回 pending
func (r *Reader) TransactionStatus(ctx context.Context, hash common.Hash) (*TxStatus, error) {
	tx, isPending, err := r.backend.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrapf(ErrTxNotFound, "%s", hash.Hex())
		}
		return nil, errs.NewTransportError("eth_getTransactionByHash", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(r.chainID), tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to recover sender")
	}

	status := &TxStatus{
		TxHash:   tx.Hash().Hex(),
		State:    TxStatePending,
		From:     from.Hex(),
		ValueWei: tx.Value(),
		Nonce:    tx.Nonce(),
	}
	if to := tx.To(); to != nil {
		status.To = to.Hex()
	}

	if isPending {
		return status, nil
	}

	receipt, err := r.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			// known but not yet mined
			return status, nil
		}
		return nil, errs.NewTransportError("eth_getTransactionReceipt", err)
	}

	status.BlockNumber = receipt.BlockNumber
	status.BlockHash = receipt.BlockHash.Hex()
	status.GasUsed = receipt.GasUsed
	if receipt.Status == types.ReceiptStatusSuccessful {
		status.State = TxStateSuccess
	} else {
		status.State = TxStateFailed
	}

	return status, nil
}
