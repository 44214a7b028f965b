package secret

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Redacted is printed wherever a Key would otherwise be formatted.
const Redacted = "[REDACTED]"

// Signer is the read side of a Key handed to the signing path.
type Signer interface {
	// Address returns the account controlled by the key.
	Address() common.Address

	// Use calls fn with the private key. The key must not be retained after fn returns.
	Use(fn func(key *ecdsa.PrivateKey) error) error
}
