package address

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

const hexAddressLength = 2 + 2*common.AddressLength

// Parse validates an EVM address string and returns it.
//
// The input must carry the 0x prefix and exactly 40 hex digits. All-lowercase
// and all-uppercase inputs are accepted as is; mixed case inputs must match
// the EIP-55 checksum.
func Parse(input string) (common.Address, error) {
	s := strings.TrimSpace(input)

	if !has0xPrefix(s) {
		return common.Address{}, errs.NewInvalidAddressError(input, "missing 0x prefix")
	}
	if len(s) != hexAddressLength {
		return common.Address{}, errs.NewInvalidAddressError(input, "expected 20 bytes of hex")
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, errs.NewInvalidAddressError(input, "not a hex string")
	}

	addr := common.HexToAddress(s)
	digits := s[2:]
	if isMixedCase(digits) && addr.Hex() != "0x"+digits {
		return common.Address{}, errs.NewInvalidAddressError(input, "checksum mismatch")
	}

	return addr, nil
}

// Checksum returns the EIP-55 representation of addr.
func Checksum(addr common.Address) string {
	return addr.Hex()
}

// FromPrivateKey derives the address owned by the given private key.
func FromPrivateKey(key *ecdsa.PrivateKey) (common.Address, error) {
	if key == nil {
		return common.Address{}, errors.New("private key is nil")
	}

	publicKey := key.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, errors.New("failed to cast public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
