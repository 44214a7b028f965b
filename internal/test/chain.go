package test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

// FundedBalanceWei is the genesis balance of the funded test account (10 ether).
var FundedBalanceWei = new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18))

// TestChain is an in-process simulated chain with one funded account.
type TestChain struct {
	Backend *simulated.Backend
	Spy     *SpyBackend
	Client  *chain.Client
	ChainID *big.Int

	// FundedKeyHex is the hex private key of the funded account.
	FundedKeyHex string
	FundedAddr   common.Address
}

// WithTestChain runs closure against a fresh simulated chain that is closed afterwards.
func WithTestChain(t *testing.T, closure func(c *TestChain)) {
	t.Helper()

	closure(NewTestChain(t))
}

// NewTestChain starts a simulated chain funding one freshly generated account.
// The chain is closed when the test finishes.
func NewTestChain(t *testing.T) *TestChain {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	fundedAddr := crypto.PubkeyToAddress(privateKey.PublicKey)

	backend := simulated.NewBackend(types.GenesisAlloc{
		fundedAddr: {Balance: FundedBalanceWei},
	})
	t.Cleanup(func() {
		_ = backend.Close()
	})

	spy := NewSpyBackend(backend.Client())

	chainID, err := backend.Client().ChainID(t.Context())
	require.NoError(t, err)

	return &TestChain{
		Backend:      backend,
		Spy:          spy,
		Client:       chain.NewClient(spy, chainID),
		ChainID:      chainID,
		FundedKeyHex: hex.EncodeToString(crypto.FromECDSA(privateKey)),
		FundedAddr:   fundedAddr,
	}
}

// FundedKey parses the funded account's key; it is released when the test finishes.
func (c *TestChain) FundedKey(t *testing.T) *secret.Key {
	t.Helper()

	key, err := secret.ParseHex(c.FundedKeyHex)
	require.NoError(t, err)
	t.Cleanup(key.Release)

	return key
}

// RandomAddress returns a fresh address with no balance.
func RandomAddress(t *testing.T) common.Address {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	return crypto.PubkeyToAddress(privateKey.PublicKey)
}
