package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

type service struct {
	key secret.Signer
}

// NewService creates a new SignerService bound to key
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(key secret.Signer) (Service, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}

	return &service{
		key: key,
	}, nil
}

func (s *service) Address() common.Address {
	return s.key.Address()
}

// SignEVMTransaction signs an EVM transaction
func (s *service) SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error) {
	if req == nil {
		return nil, errors.New("sign request is nil")
	}

	var resp *SignEVMResponse
	err := s.key.Use(func(privateKey *ecdsa.PrivateKey) error {
		var err error
		resp, err = s.signTransaction(ctx, req, privateKey)
		return err
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
