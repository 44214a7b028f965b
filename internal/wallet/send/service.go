//nolint:ireturn // 返回接口类型是预期的设计
package send

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/policy"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

// Service 受策略保护的转账服务接口
type Service interface {
	// Send 校验策略后签名并广播转账
	// 策略不通过时返回 PolicyViolationError，此时不会签名也不会发起任何网络请求
	Send(ctx context.Context, req *chain.TransferRequest, key secret.Signer, p *policy.Policy) (*Result, error)
}

// TransactorProvider 为凭证创建签名句柄，*chain.Client 实现了该接口
type TransactorProvider interface {
	Transactor(key secret.Signer) (*chain.Transactor, error)
}

type service struct {
	provider TransactorProvider
}

// NewService 创建转账服务
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(provider TransactorProvider) Service {
	return &service{
		provider: provider,
	}
}

// Send 校验策略后签名并广播转账
func (s *service) Send(ctx context.Context, req *chain.TransferRequest, key secret.Signer, p *policy.Policy) (*Result, error) {
	if req == nil {
		return nil, errors.New("transfer request is required")
	}
	if req.ValueWei == nil || req.ValueWei.Sign() < 0 {
		return nil, errors.New("transfer value must not be negative")
	}

	// 1. 策略检查必须先于签名和广播
	if err := p.Check(req.To, req.ValueWei); err != nil {
		util.LogFromContext(ctx).Warn().
			Err(err).
			Str("to", req.To.Hex()).
			Str("value_wei", req.ValueWei.String()).
			Msg("Transfer rejected by policy")
		return nil, err
	}

	// 2. 创建签名句柄，凭证缺失时快速失败
	transactor, err := s.provider.Transactor(key)
	if err != nil {
		return nil, err
	}

	if (req.From != common.Address{}) && req.From != transactor.Address() {
		return nil, errs.NewConfigurationError("FROM_ADDRESS",
			errors.Errorf("%s does not match the address of PRIVATE_KEY %s", req.From.Hex(), transactor.Address().Hex()))
	}

	// 3. 签名并广播
	transfer, err := transactor.Transfer(ctx, req.To, req.ValueWei)
	if err != nil {
		return nil, err
	}

	return resultFromTransfer(transfer), nil
}
