package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Service provides transaction signing functionality
type Service interface {
	// Address returns the account transactions are signed for
	Address() common.Address

	// SignEVMTransaction signs an EVM transaction (EIP-1559, or legacy when GasPrice is set)
	SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error)
}

// SignEVMRequest represents a request to sign an EVM transaction
type SignEVMRequest struct {
	ChainID              *big.Int       // Chain ID (1 for Ethereum mainnet, 137 for Polygon, etc.)
	To                   common.Address // Recipient address
	Value                *big.Int       // Amount in wei
	GasLimit             uint64         // Gas limit
	MaxFeePerGas         *big.Int       // Max fee per gas (EIP-1559, in wei)
	MaxPriorityFeePerGas *big.Int       // Max priority fee per gas (EIP-1559, in wei)
	GasPrice             *big.Int       // Gas price for legacy transactions, leave nil for EIP-1559
	Nonce                uint64         // Transaction nonce
	Data                 []byte         // Transaction data (for contract calls)
	FromAddress          common.Address // Address to sign from, must match the key
}

// SignEVMResponse represents a signed EVM transaction
type SignEVMResponse struct {
	Transaction    *types.Transaction // Signed transaction, ready for broadcast
	RawTransaction []byte             // Binary encoded signed transaction
	TxHash         common.Hash        // Transaction hash
}
