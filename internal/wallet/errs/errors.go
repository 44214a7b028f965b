// Package errs holds the error taxonomy shared by the wallet packages.
//
// Every constructor returns the typed error wrapped with a stack trace. Use
// errors.As to inspect the concrete type.
package errs

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// ConfigurationError indicates a required setting is absent or cannot be parsed.
type ConfigurationError struct {
	Key string
	err error
}

func (e ConfigurationError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("configuration error: %s is required", e.Key)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.err)
}

// Unwrap returns the original error.
func (e ConfigurationError) Unwrap() error { return e.err }

// NewMissingConfigError reports that the setting key was not supplied.
func NewMissingConfigError(key string) error {
	return errors.WithStack(ConfigurationError{Key: key})
}

// NewConfigurationError reports that the setting key holds an unusable value.
func NewConfigurationError(key string, err error) error {
	return errors.WithStack(ConfigurationError{Key: key, err: err})
}

// TransportError indicates a network or RPC call failed. It is never retried.
type TransportError struct {
	Op  string
	err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.err)
}

// Unwrap returns the original error.
func (e TransportError) Unwrap() error { return e.err }

// NewTransportError wraps err as the failure of the remote operation op.
func NewTransportError(op string, err error) error {
	return errors.WithStack(TransportError{Op: op, err: err})
}

// InvalidAddressError indicates an address failed format or checksum validation.
type InvalidAddressError struct {
	Input  string
	Reason string
}

func (e InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Input, e.Reason)
}

// NewInvalidAddressError constructs and returns an InvalidAddressError.
func NewInvalidAddressError(input, reason string) error {
	return errors.WithStack(InvalidAddressError{Input: input, Reason: reason})
}

// Policy rules reported in PolicyViolationError.
const (
	RuleMaxValue  = "max_value"
	RuleDenylist  = "denylist"
	RuleAllowlist = "allowlist"
)

// PolicyViolationError indicates a transfer was rejected by the transfer policy.
// It is always raised before anything is signed or broadcast.
type PolicyViolationError struct {
	Rule        string
	To          string
	ValueWei    *big.Int
	MaxValueWei *big.Int
}

func (e PolicyViolationError) Error() string {
	switch e.Rule {
	case RuleMaxValue:
		return fmt.Sprintf("policy violation: value %s wei exceeds max value %s wei", e.ValueWei, e.MaxValueWei)
	case RuleDenylist:
		return fmt.Sprintf("policy violation: destination %s is denylisted", e.To)
	case RuleAllowlist:
		return fmt.Sprintf("policy violation: destination %s is not in allowlist", e.To)
	default:
		return fmt.Sprintf("policy violation: %s", e.Rule)
	}
}

// NewPolicyViolationError constructs and returns a PolicyViolationError.
func NewPolicyViolationError(rule, to string, valueWei, maxValueWei *big.Int) error {
	return errors.WithStack(PolicyViolationError{
		Rule:        rule,
		To:          to,
		ValueWei:    valueWei,
		MaxValueWei: maxValueWei,
	})
}

// SimulationError is returned by the pipeline when the dry run reported failure.
// The simulator itself never returns it.
type SimulationError struct {
	Reason string
}

func (e SimulationError) Error() string {
	return "simulation failed: " + e.Reason
}

// NewSimulationError constructs and returns a SimulationError.
func NewSimulationError(reason string) error {
	return errors.WithStack(SimulationError{Reason: reason})
}

// Error kinds returned by Kind.
const (
	KindNone           = "none"
	KindConfiguration  = "configuration"
	KindTransport      = "transport"
	KindInvalidAddress = "invalid_address"
	KindPolicy         = "policy_violation"
	KindSimulation     = "simulation"
	KindOther          = "other"
)

// Kind names the taxonomy member err belongs to, for logs and metric labels.
func Kind(err error) string {
	if err == nil {
		return KindNone
	}

	var (
		cfgErr       ConfigurationError
		transportErr TransportError
		addrErr      InvalidAddressError
		policyErr    PolicyViolationError
		simErr       SimulationError
	)

	switch {
	case errors.As(err, &policyErr):
		return KindPolicy
	case errors.As(err, &simErr):
		return KindSimulation
	case errors.As(err, &addrErr):
		return KindInvalidAddress
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindOther
	}
}
