package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/currency"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/policy"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
)

// Transfer is the validated input of one transfer run. Key must be released
// by the caller.
type Transfer struct {
	Endpoint chain.Endpoint
	Request  chain.TransferRequest
	Policy   *policy.Policy
	Key      *secret.Key
}

// requiredTransferEnv lists the variables a transfer needs, in the order they are reported.
var requiredTransferEnv = []string{
	EnvRPCURL,
	EnvChainID,
	EnvPrivateKey,
	EnvFromAddress,
	EnvToAddress,
	EnvValueWei,
}

// LoadTransfer reads and validates every transfer input from the environment.
// It makes no network call. A missing or unparsable variable is a
// ConfigurationError, a malformed address an InvalidAddressError.
func LoadTransfer() (*Transfer, error) {
	v := newViper()

	for _, key := range requiredTransferEnv {
		if lookup(v, key) == "" {
			return nil, errs.NewMissingConfigError(key)
		}
	}

	endpoint, err := loadEndpoint(v)
	if err != nil {
		return nil, err
	}

	from, err := address.Parse(lookup(v, EnvFromAddress))
	if err != nil {
		return nil, err
	}
	to, err := address.Parse(lookup(v, EnvToAddress))
	if err != nil {
		return nil, err
	}

	valueWei, err := currency.ParseWei(lookup(v, EnvValueWei))
	if err != nil {
		return nil, errs.NewConfigurationError(EnvValueWei, err)
	}

	p, err := loadPolicy(v)
	if err != nil {
		return nil, err
	}

	// parsed last so no other failure leaves a key to release
	key, err := secret.ParseHex(lookup(v, EnvPrivateKey))
	if err != nil {
		return nil, errs.NewConfigurationError(EnvPrivateKey, err)
	}

	return &Transfer{
		Endpoint: endpoint,
		Request: chain.TransferRequest{
			From:     from,
			To:       to,
			ValueWei: valueWei,
		},
		Policy: p,
		Key:    key,
	}, nil
}

// LoadEndpoint reads RPC_URL and CHAIN_ID, both are required.
func LoadEndpoint() (chain.Endpoint, error) {
	v := newViper()

	for _, key := range []string{EnvRPCURL, EnvChainID} {
		if lookup(v, key) == "" {
			return chain.Endpoint{}, errs.NewMissingConfigError(key)
		}
	}

	return loadEndpoint(v)
}

func loadEndpoint(v *viper.Viper) (chain.Endpoint, error) {
	network, err := chain.ParseNetwork(lookup(v, EnvChainID))
	if err != nil {
		return chain.Endpoint{}, errs.NewConfigurationError(EnvChainID, err)
	}

	return chain.Endpoint{
		RPCURL:  lookup(v, EnvRPCURL),
		Network: network,
	}, nil
}

// loadPolicy reads the policy file, MAX_VALUE_WEI replaces its ceiling.
func loadPolicy(v *viper.Viper) (*policy.Policy, error) {
	var p *policy.Policy

	if path := lookup(v, EnvPolicyFile); path != "" {
		filePolicy, err := policy.LoadFile(path)
		if err != nil {
			return nil, errs.NewConfigurationError(EnvPolicyFile, err)
		}
		p = filePolicy
	}

	if raw := lookup(v, EnvMaxValueWei); raw != "" {
		maxValueWei, err := currency.ParseWei(raw)
		if err != nil {
			return nil, errs.NewConfigurationError(EnvMaxValueWei, err)
		}
		p = p.WithMaxValue(maxValueWei)
	}

	return p, nil
}

func lookup(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}
