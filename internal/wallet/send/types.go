package send

import (
	"math/big"

	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
)

// Result 已广播转账的结果
type Result struct {
	TxHash    string   `json:"txHash"` // 0x 前缀的 32 字节交易哈希
	From      string   `json:"from"`
	To        string   `json:"to"`
	ValueWei  *big.Int `json:"valueWei"`
	Nonce     uint64   `json:"nonce"`
	GasLimit  uint64   `json:"gasLimit"`
	GasFeeCap *big.Int `json:"maxFeePerGas,omitempty"`
	GasTipCap *big.Int `json:"maxPriorityFeePerGas,omitempty"`
	GasPrice  *big.Int `json:"gasPrice,omitempty"`
}

func resultFromTransfer(t *chain.Transfer) *Result {
	return &Result{
		TxHash:    t.TxHash.Hex(),
		From:      address.Checksum(t.From),
		To:        address.Checksum(t.To),
		ValueWei:  t.ValueWei,
		Nonce:     t.Nonce,
		GasLimit:  t.GasLimit,
		GasFeeCap: t.GasFeeCap,
		GasTipCap: t.GasTipCap,
		GasPrice:  t.GasPrice,
	}
}
