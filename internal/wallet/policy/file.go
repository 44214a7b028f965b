package policy

import (
	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/currency"
)

// fileFormat is the TOML layout of a policy file:
//
//	max_value_wei = "1000000000000000000"
//	allowlist = ["0x..."]
//	denylist = ["0x..."]
type fileFormat struct {
	MaxValueWei string   `toml:"max_value_wei"`
	Allowlist   []string `toml:"allowlist"`
	Denylist    []string `toml:"denylist"`
}

// LoadFile reads a TOML policy file.
func LoadFile(path string) (*Policy, error) {
	var f fileFormat
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode policy file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in policy file %s: %v", path, undecoded)
	}

	return f.toPolicy()
}

// Parse reads a policy from TOML text.
func Parse(data string) (*Policy, error) {
	var f fileFormat
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode policy")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in policy: %v", undecoded)
	}

	return f.toPolicy()
}

func (f fileFormat) toPolicy() (*Policy, error) {
	p := &Policy{}

	if f.MaxValueWei != "" {
		maxValueWei, err := currency.ParseWei(f.MaxValueWei)
		if err != nil {
			return nil, errors.Wrap(err, "invalid max_value_wei")
		}
		p.MaxValueWei = maxValueWei
	}

	var err error
	if p.Allowlist, err = parseAddresses(f.Allowlist); err != nil {
		return nil, errors.Wrap(err, "invalid allowlist")
	}
	if p.Denylist, err = parseAddresses(f.Denylist); err != nil {
		return nil, errors.Wrap(err, "invalid denylist")
	}

	return p, nil
}

func parseAddresses(in []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(in))
	for _, s := range in {
		addr, err := address.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}
