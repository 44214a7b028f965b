package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/address"
)

// signTransaction signs an EIP-1559 transaction, or a legacy one when req.GasPrice is set
func (s *service) signTransaction(_ context.Context, req *SignEVMRequest, privateKey *ecdsa.PrivateKey) (*SignEVMResponse, error) {
	if req.ChainID == nil || req.ChainID.Sign() <= 0 {
		return nil, errors.New("invalid chain id")
	}
	if req.Value == nil || req.Value.Sign() < 0 {
		return nil, errors.New("invalid value")
	}

	// Verify from address matches private key
	derivedAddress, err := address.FromPrivateKey(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive address from private key")
	}
	if derivedAddress != req.FromAddress {
		return nil, errors.New("from address does not match private key")
	}

	toAddress := req.To

	var txData types.TxData
	if req.GasPrice != nil {
		txData = &types.LegacyTx{
			Nonce:    req.Nonce,
			GasPrice: req.GasPrice,
			Gas:      req.GasLimit,
			To:       &toAddress,
			Value:    req.Value,
			Data:     req.Data,
		}
	} else {
		if req.MaxFeePerGas == nil || req.MaxPriorityFeePerGas == nil {
			return nil, errors.New("fee caps are required for EIP-1559 transactions")
		}
		txData = &types.DynamicFeeTx{
			ChainID:   req.ChainID,
			Nonce:     req.Nonce,
			GasTipCap: req.MaxPriorityFeePerGas,
			GasFeeCap: req.MaxFeePerGas,
			Gas:       req.GasLimit,
			To:        &toAddress,
			Value:     req.Value,
			Data:      req.Data,
		}
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(txData)

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(req.ChainID), privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &SignEVMResponse{
		Transaction:    signedTx,
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash(),
	}, nil
}
