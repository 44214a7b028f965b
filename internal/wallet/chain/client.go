package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
	"github.com/chapool/wallet-agent/internal/wallet/signer"
)

// Client 封装以太坊 RPC 客户端，提供只读句柄和签名句柄
type Client struct {
	backend Backend
	chainID *big.Int
	closeFn func()
}

// Dial connects to the endpoint and verifies that it serves the configured network.
// A transport failure is returned as TransportError, a chain id mismatch as ConfigurationError.
func Dial(ctx context.Context, endpoint Endpoint) (*Client, error) {
	if endpoint.RPCURL == "" {
		return nil, errs.NewMissingConfigError("RPC_URL")
	}
	if endpoint.Network.ChainID == nil {
		return nil, errs.NewMissingConfigError("CHAIN_ID")
	}

	ethClient, err := ethclient.DialContext(ctx, endpoint.RPCURL)
	if err != nil {
		return nil, errs.NewTransportError("dial", err)
	}

	remoteChainID, err := ethClient.ChainID(ctx)
	if err != nil {
		ethClient.Close()
		return nil, errs.NewTransportError("eth_chainId", err)
	}

	if remoteChainID.Cmp(endpoint.Network.ChainID) != 0 {
		ethClient.Close()
		return nil, errs.NewConfigurationError("CHAIN_ID",
			errors.Errorf("endpoint serves chain id %s, configured %s", remoteChainID, endpoint.Network))
	}

	log.Debug().
		Str("network", endpoint.Network.String()).
		Str("chain_id", remoteChainID.String()).
		Msg("Connected to RPC node")

	return &Client{
		backend: ethClient,
		chainID: remoteChainID,
		closeFn: ethClient.Close,
	}, nil
}

// NewClient wraps an already connected backend serving chainID.
func NewClient(backend Backend, chainID *big.Int) *Client {
	return &Client{
		backend: backend,
		chainID: new(big.Int).Set(chainID),
	}
}

// ChainID returns the chain id the client is bound to.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Reader returns the read-only query handle. No credential is needed.
func (c *Client) Reader() *Reader {
	return &Reader{backend: c.backend, chainID: c.ChainID()}
}

// CheckKey reports a ConfigurationError on PRIVATE_KEY when key cannot sign:
// a nil interface, a nil *secret.Key or a released one.
func CheckKey(key secret.Signer) error {
	if key == nil {
		return errs.NewMissingConfigError("PRIVATE_KEY")
	}
	if k, ok := key.(*secret.Key); ok {
		if k == nil {
			return errs.NewMissingConfigError("PRIVATE_KEY")
		}
		if k.Released() {
			return errs.NewConfigurationError("PRIVATE_KEY", secret.ErrReleased)
		}
	}

	return nil
}

// Transactor returns a signing handle bound to key. It fails fast with a
// ConfigurationError when no usable key was supplied.
func (c *Client) Transactor(key secret.Signer) (*Transactor, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}

	signerService, err := signer.NewService(key)
	if err != nil {
		return nil, errs.NewConfigurationError("PRIVATE_KEY", err)
	}

	return &Transactor{
		backend: c.backend,
		chainID: c.ChainID(),
		signer:  signerService,
	}, nil
}
