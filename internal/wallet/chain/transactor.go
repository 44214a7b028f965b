package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/signer"
)

const (
	// TransferGasLimit is the intrinsic gas of a plain value transfer.
	TransferGasLimit = 21000
	// maxFee = baseFee * eip1559FeeMultiplier + tipCap
	eip1559FeeMultiplier = 2
)

// Transactor signs and broadcasts transactions for one account.
type Transactor struct {
	backend Backend
	chainID *big.Int
	signer  signer.Service
}

// Address returns the account transactions are sent from.
func (t *Transactor) Address() common.Address {
	return t.signer.Address()
}

// Transfer signs and broadcasts a native token transfer and returns it once the
// node accepted it. It does not wait for inclusion.
func (t *Transactor) Transfer(ctx context.Context, to common.Address, valueWei *big.Int) (*Transfer, error) {
	if valueWei == nil || valueWei.Sign() < 0 {
		return nil, errors.New("transfer value must not be negative")
	}

	from := t.Address()

	nonce, err := t.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errs.NewTransportError("eth_getTransactionCount", err)
	}

	gasLimit, err := estimateTransferGas(ctx, t.backend, from, to, valueWei)
	if err != nil {
		return nil, err
	}
	if gasLimit < TransferGasLimit {
		gasLimit = TransferGasLimit
	}

	req := &signer.SignEVMRequest{
		ChainID:     t.chainID,
		To:          to,
		Value:       valueWei,
		GasLimit:    gasLimit,
		Nonce:       nonce,
		FromAddress: from,
	}
	if err := t.fillFees(ctx, req); err != nil {
		return nil, err
	}

	signed, err := t.signer.SignEVMTransaction(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transfer")
	}

	if err := t.backend.SendTransaction(ctx, signed.Transaction); err != nil {
		return nil, errs.NewTransportError("eth_sendRawTransaction", err)
	}

	log.Info().
		Str("tx_hash", signed.TxHash.Hex()).
		Str("from", from.Hex()).
		Str("to", to.Hex()).
		Str("value_wei", valueWei.String()).
		Uint64("nonce", nonce).
		Uint64("gas_limit", gasLimit).
		Msg("Transfer broadcast")

	return &Transfer{
		TxHash:    signed.TxHash,
		From:      from,
		To:        to,
		ValueWei:  new(big.Int).Set(valueWei),
		Nonce:     nonce,
		GasLimit:  gasLimit,
		GasFeeCap: req.MaxFeePerGas,
		GasTipCap: req.MaxPriorityFeePerGas,
		GasPrice:  req.GasPrice,
	}, nil
}

// fillFees sets EIP-1559 fee caps from the latest base fee, or a legacy gas
// price on chains whose headers carry no base fee.
func (t *Transactor) fillFees(ctx context.Context, req *signer.SignEVMRequest) error {
	head, err := t.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return errs.NewTransportError("eth_getBlockByNumber", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := t.backend.SuggestGasPrice(ctx)
		if err != nil {
			return errs.NewTransportError("eth_gasPrice", err)
		}
		req.GasPrice = gasPrice
		return nil
	}

	tipCap, err := t.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return errs.NewTransportError("eth_maxPriorityFeePerGas", err)
	}

	req.MaxPriorityFeePerGas = tipCap
	req.MaxFeePerGas = FeeCap(head.BaseFee, tipCap)
	return nil
}

// FeeCap returns baseFee * 2 + tipCap.
func FeeCap(baseFee, tipCap *big.Int) *big.Int {
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(eip1559FeeMultiplier))
	return feeCap.Add(feeCap, tipCap)
}
