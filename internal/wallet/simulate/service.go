//nolint:ireturn // 返回接口类型是预期的设计
package simulate

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

// Service 转账模拟服务接口
type Service interface {
	// Simulate 估算转账所需的 Gas，不会广播交易，失败通过 Result 返回而不是 error
	Simulate(ctx context.Context, req *chain.TransferRequest, key secret.Signer) Result
}

// Estimator 估算转账 Gas，*chain.Reader 实现了该接口
type Estimator interface {
	EstimateTransferGas(ctx context.Context, from, to common.Address, valueWei *big.Int) (uint64, error)
}

type service struct {
	estimator Estimator
}

// NewService 创建模拟服务
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(estimator Estimator) Service {
	return &service{
		estimator: estimator,
	}
}

// Simulate 以凭证对应的地址作为发送方估算 Gas
func (s *service) Simulate(ctx context.Context, req *chain.TransferRequest, key secret.Signer) Result {
	logger := util.LogFromContext(ctx)

	if req == nil {
		return failed(errors.New("transfer request is required"))
	}
	if err := chain.CheckKey(key); err != nil {
		return failed(err)
	}
	if req.ValueWei == nil || req.ValueWei.Sign() < 0 {
		return failed(errors.New("transfer value must not be negative"))
	}

	from := key.Address()

	gas, err := s.estimator.EstimateTransferGas(ctx, from, req.To, req.ValueWei)
	if err != nil {
		logger.Debug().Err(err).
			Str("from", from.Hex()).
			Str("to", req.To.Hex()).
			Msg("Transfer simulation failed")
		return failed(err)
	}

	logger.Debug().
		Str("from", from.Hex()).
		Str("to", req.To.Hex()).
		Uint64("estimated_gas", gas).
		Msg("Transfer simulated")

	return Result{
		OK:           true,
		EstimatedGas: new(big.Int).SetUint64(gas),
	}
}

func failed(err error) Result {
	return Result{
		OK:    false,
		Error: err.Error(),
	}
}
