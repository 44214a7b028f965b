// Package secret holds the in-memory signing key for a single invocation.
package secret

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/wallet/address"
)

var (
	// ErrInvalidKey is returned for malformed key material. It never includes the input.
	ErrInvalidKey = errors.New("invalid private key")
	// ErrReleased is returned when a Key is used after Release.
	ErrReleased = errors.New("private key already released")
)

// Key is a scoped signing key. It is acquired once with ParseHex and must be
// released with Release on every exit path; Release zeroes the key bytes.
type Key struct {
	mu       sync.Mutex
	raw      []byte
	addr     common.Address
	released bool
}

var _ Signer = (*Key)(nil)

// ParseHex parses a 32 byte secp256k1 private key from hex, with or without 0x prefix.
func ParseHex(s string) (*Key, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidKey
	}

	ecdsaKey, err := crypto.ToECDSA(raw)
	if err != nil {
		clear(raw)
		return nil, ErrInvalidKey
	}
	defer wipe(ecdsaKey)

	addr, err := address.FromPrivateKey(ecdsaKey)
	if err != nil {
		clear(raw)
		return nil, ErrInvalidKey
	}

	return &Key{
		raw:  raw,
		addr: addr,
	}, nil
}

// Address returns the account controlled by the key. It stays valid after Release.
func (k *Key) Address() common.Address {
	return k.addr
}

// Use calls fn with a private key built from the held bytes.
func (k *Key) Use(fn func(key *ecdsa.PrivateKey) error) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.released {
		return ErrReleased
	}

	ecdsaKey, err := crypto.ToECDSA(k.raw)
	if err != nil {
		return ErrInvalidKey
	}
	defer wipe(ecdsaKey)

	return fn(ecdsaKey)
}

// Release zeroes the key bytes. It is safe to call more than once and on a nil Key.
func (k *Key) Release() {
	if k == nil {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	clear(k.raw)
	k.raw = nil
	k.released = true
}

// Released reports whether Release was called.
func (k *Key) Released() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.released
}

func (k *Key) String() string { return Redacted }

// GoString keeps %#v from dumping the struct fields.
func (k *Key) GoString() string { return Redacted }

// Format renders the key as Redacted for every verb.
func (k *Key) Format(s fmt.State, _ rune) {
	//nolint:errcheck,gosec // nothing to do with a failed write
	fmt.Fprint(s, Redacted)
}

// MarshalText keeps the key out of JSON and structured log output.
func (k *Key) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// wipe zeroes the scalar of key. SetInt64 alone only shortens the slice, so the
// whole backing array is cleared first.
func wipe(key *ecdsa.PrivateKey) {
	if key == nil || key.D == nil {
		return
	}

	words := key.D.Bits()
	clear(words[:cap(words)])
	key.D.SetInt64(0)
}
