package chain

import (
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Network identifies the chain a client is expected to talk to.
type Network struct {
	Name    string
	ChainID *big.Int
}

// Well known networks accepted by name in ParseNetwork.
var networks = map[string]int64{
	"mainnet":     1,
	"sepolia":     11155111,
	"holesky":     17000,
	"hoodi":       560048,
	"bsc":         56,
	"bsc-testnet": 97,
	"polygon":     137,
	"dev":         1337,
}

// ParseNetwork resolves a network name or a positive decimal chain id.
// There is no default network.
func ParseNetwork(s string) (Network, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Network{}, errors.New("network is required")
	}

	if id, ok := networks[s]; ok {
		return Network{Name: s, ChainID: big.NewInt(id)}, nil
	}

	const base10 = 10
	id, ok := new(big.Int).SetString(s, base10)
	if !ok || id.Sign() <= 0 {
		return Network{}, errors.Errorf("unknown network %q, use a chain id or one of %s", s, strings.Join(KnownNetworks(), ", "))
	}

	return Network{Name: nameForChainID(id), ChainID: id}, nil
}

// KnownNetworks returns the accepted network names in sorted order.
func KnownNetworks() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func nameForChainID(id *big.Int) string {
	for name, known := range networks {
		if id.IsInt64() && id.Int64() == known {
			return name
		}
	}
	return id.String()
}

func (n Network) String() string {
	if n.ChainID == nil {
		return n.Name
	}
	if n.Name == n.ChainID.String() {
		return n.Name
	}
	return n.Name + " (" + n.ChainID.String() + ")"
}
