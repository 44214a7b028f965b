// Package policy decides whether a transfer may be signed at all.
package policy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

// Policy bounds outgoing transfers. The zero value and a nil *Policy allow everything.
type Policy struct {
	// MaxValueWei is the ceiling for a single transfer, nil means no ceiling.
	MaxValueWei *big.Int
	// Allowlist, when not empty, is the only set of permitted destinations.
	Allowlist []common.Address
	// Denylist destinations are always rejected.
	Denylist []common.Address
}

// Check returns a PolicyViolationError if sending valueWei to to is not allowed.
// It performs no I/O.
func (p *Policy) Check(to common.Address, valueWei *big.Int) error {
	if p == nil {
		return nil
	}

	if contains(p.Denylist, to) {
		return errs.NewPolicyViolationError(errs.RuleDenylist, to.Hex(), valueWei, p.MaxValueWei)
	}
	if len(p.Allowlist) > 0 && !contains(p.Allowlist, to) {
		return errs.NewPolicyViolationError(errs.RuleAllowlist, to.Hex(), valueWei, p.MaxValueWei)
	}
	if p.MaxValueWei != nil && valueWei.Cmp(p.MaxValueWei) > 0 {
		return errs.NewPolicyViolationError(errs.RuleMaxValue, to.Hex(), valueWei, p.MaxValueWei)
	}

	return nil
}

// WithMaxValue returns a copy of p whose ceiling is maxValueWei. A nil
// maxValueWei keeps the current ceiling.
func (p *Policy) WithMaxValue(maxValueWei *big.Int) *Policy {
	out := &Policy{}
	if p != nil {
		*out = *p
	}
	if maxValueWei != nil {
		out.MaxValueWei = new(big.Int).Set(maxValueWei)
	}
	return out
}

func contains(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}
