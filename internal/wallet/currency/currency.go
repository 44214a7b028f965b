// Package currency converts between wei amounts and their string forms.
package currency

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimal places between wei and ether.
const EtherDecimals = 18

// FormatEther converts the input in wei to ether. The result keeps full 18
// digit precision with trailing zeros removed, e.g. 1500000000000000000 => "1.5".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// ParseWei parses a non-negative decimal integer amount of wei of any size.
func ParseWei(input string) (*big.Int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, errors.New("amount is empty")
	}

	const base10 = 10
	wei, ok := new(big.Int).SetString(s, base10)
	if !ok {
		return nil, errors.Errorf("invalid wei amount %q, expected a decimal integer", s)
	}
	if wei.Sign() < 0 {
		return nil, errors.Errorf("invalid wei amount %q, must not be negative", s)
	}
	return wei, nil
}
