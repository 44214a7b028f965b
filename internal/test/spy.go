package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chapool/wallet-agent/internal/wallet/chain"
)

// Spied backend method names.
const (
	MethodChainID          = "ChainID"
	MethodBalanceAt        = "BalanceAt"
	MethodPendingNonceAt   = "PendingNonceAt"
	MethodEstimateGas      = "EstimateGas"
	MethodHeaderByNumber   = "HeaderByNumber"
	MethodSuggestGasTipCap = "SuggestGasTipCap"
	MethodSuggestGasPrice  = "SuggestGasPrice"
	MethodSendTransaction  = "SendTransaction"

	MethodTransactionByHash  = "TransactionByHash"
	MethodTransactionReceipt = "TransactionReceipt"
)

// SpyBackend wraps a chain.Backend, counts calls per method and can inject
// failures. A nil inner backend answers every call with its injected error or zero values.
type SpyBackend struct {
	inner chain.Backend

	mu     sync.Mutex
	calls  map[string]int
	errs   map[string]error
	sentTx []*types.Transaction

	balance *big.Int
}

var _ chain.Backend = (*SpyBackend)(nil)

// NewSpyBackend wraps inner.
func NewSpyBackend(inner chain.Backend) *SpyBackend {
	return &SpyBackend{
		inner: inner,
		calls: make(map[string]int),
		errs:  make(map[string]error),
	}
}

// FailWith makes every subsequent call to method return err.
func (s *SpyBackend) FailWith(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errs[method] = err
}

// SetBalance sets the balance reported when there is no inner backend.
func (s *SpyBackend) SetBalance(balanceWei *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = new(big.Int).Set(balanceWei)
}

// Calls returns how often method was called.
func (s *SpyBackend) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (s *SpyBackend) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// SentTransactions returns the transactions passed to SendTransaction.
func (s *SpyBackend) SentTransactions() []*types.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*types.Transaction(nil), s.sentTx...)
}

func (s *SpyBackend) record(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[method]++
	return s.errs[method]
}

func (s *SpyBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if err := s.record(MethodChainID); err != nil {
		return nil, err
	}
	if s.inner == nil {
		return big.NewInt(1), nil
	}
	return s.inner.ChainID(ctx)
}

func (s *SpyBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := s.record(MethodBalanceAt); err != nil {
		return nil, err
	}
	if s.inner == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.balance == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(s.balance), nil
	}
	return s.inner.BalanceAt(ctx, account, blockNumber)
}

func (s *SpyBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := s.record(MethodPendingNonceAt); err != nil {
		return 0, err
	}
	if s.inner == nil {
		return 0, nil
	}
	return s.inner.PendingNonceAt(ctx, account)
}

func (s *SpyBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if err := s.record(MethodEstimateGas); err != nil {
		return 0, err
	}
	if s.inner == nil {
		return chain.TransferGasLimit, nil
	}
	return s.inner.EstimateGas(ctx, msg)
}

func (s *SpyBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := s.record(MethodHeaderByNumber); err != nil {
		return nil, err
	}
	if s.inner == nil {
		return &types.Header{BaseFee: big.NewInt(1)}, nil
	}
	return s.inner.HeaderByNumber(ctx, number)
}

func (s *SpyBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if err := s.record(MethodSuggestGasTipCap); err != nil {
		return nil, err
	}
	if s.inner == nil {
		return big.NewInt(1), nil
	}
	return s.inner.SuggestGasTipCap(ctx)
}

func (s *SpyBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := s.record(MethodSuggestGasPrice); err != nil {
		return nil, err
	}
	if s.inner == nil {
		return big.NewInt(1), nil
	}
	return s.inner.SuggestGasPrice(ctx)
}

func (s *SpyBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := s.record(MethodSendTransaction); err != nil {
		return err
	}

	s.mu.Lock()
	s.sentTx = append(s.sentTx, tx)
	s.mu.Unlock()

	if s.inner == nil {
		return nil
	}
	return s.inner.SendTransaction(ctx, tx)
}

func (s *SpyBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	if err := s.record(MethodTransactionByHash); err != nil {
		return nil, false, err
	}
	if s.inner == nil {
		return nil, false, ethereum.NotFound
	}
	return s.inner.TransactionByHash(ctx, hash)
}

func (s *SpyBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := s.record(MethodTransactionReceipt); err != nil {
		return nil, err
	}
	if s.inner == nil {
		return nil, ethereum.NotFound
	}
	return s.inner.TransactionReceipt(ctx, txHash)
}
