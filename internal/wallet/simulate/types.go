package simulate

import (
	"math/big"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

// Result is the outcome of a dry run. EstimatedGas is set iff OK, Error iff not OK.
type Result struct {
	OK           bool     `json:"ok"`
	EstimatedGas *big.Int `json:"estimatedGas,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Err returns a SimulationError for a failed result and nil otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return errs.NewSimulationError(r.Error)
}
