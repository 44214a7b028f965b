//nolint:ireturn // 返回接口类型是预期的设计
package balance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/currency"
)

// Service 余额服务接口
type Service interface {
	// GetBalance 获取地址的原生代币余额
	GetBalance(ctx context.Context, addr string) (*Balance, error)
}

// Reader 读取链上余额，*chain.Reader 实现了该接口
type Reader interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
}

// service 实现 Service 接口
type service struct {
	reader Reader
}

// NewService 创建余额服务
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(reader Reader) Service {
	return &service{
		reader: reader,
	}
}

// Balance 余额信息
type Balance struct {
	Address string   `json:"address"` // EIP-55 校验和地址
	Wei     *big.Int `json:"wei"`
	Ether   string   `json:"ether"` // 18 位精度的十进制字符串
}

// GetBalance 获取地址的原生代币余额
// 地址格式错误时返回 InvalidAddressError，且不会发起网络请求
func (s *service) GetBalance(ctx context.Context, addr string) (*Balance, error) {
	account, err := address.Parse(addr)
	if err != nil {
		return nil, err
	}

	wei, err := s.reader.BalanceAt(ctx, account)
	if err != nil {
		return nil, err
	}

	balance := &Balance{
		Address: address.Checksum(account),
		Wei:     wei,
		Ether:   currency.FormatEther(wei),
	}

	util.LogFromContext(ctx).Debug().
		Str("address", balance.Address).
		Str("wei", wei.String()).
		Str("ether", balance.Ether).
		Msg("Balance fetched")

	return balance, nil
}
