package config

import (
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/chapool/wallet-agent/internal/ipfs"
	"github.com/chapool/wallet-agent/internal/metrics"
)

// Environment variable names.
const (
	EnvRPCURL      = "RPC_URL"
	EnvChainID     = "CHAIN_ID"
	EnvPrivateKey  = "PRIVATE_KEY" //nolint:gosec // name of the variable, not a credential
	EnvFromAddress = "FROM_ADDRESS"
	EnvToAddress   = "TO_ADDRESS"
	EnvValueWei    = "VALUE_WEI"
	EnvMaxValueWei = "MAX_VALUE_WEI"
	EnvPolicyFile  = "POLICY_FILE"

	EnvIPFSAPIURL  = "IPFS_API_URL"
	EnvIPFSTimeout = "IPFS_TIMEOUT"

	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvMetricsJob     = "METRICS_JOB"

	EnvLogLevel              = "LOG_LEVEL"
	EnvLogPrettyPrintConsole = "LOG_PRETTY_PRINT_CONSOLE"
)

// LoggerConfig controls the global zerolog logger.
type LoggerConfig struct {
	Level              zerolog.Level `json:"level"`
	PrettyPrintConsole bool          `json:"prettyPrintConsole"`
}

// ChainConfig is the non-secret chain endpoint setting. Values are kept raw,
// they are validated when a command needs them.
type ChainConfig struct {
	RPCURL  string `json:"rpcUrl"`
	ChainID string `json:"chainId"`
}

// TransferConfig holds the non-secret transfer inputs as supplied.
type TransferConfig struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	ValueWei    string `json:"valueWei"`
	MaxValueWei string `json:"maxValueWei"`
	PolicyFile  string `json:"policyFile"`
}

// MetricsConfig controls pushing run metrics.
type MetricsConfig struct {
	PushgatewayURL string `json:"pushgatewayUrl"`
	Job            string `json:"job"`
}

// Agent is the non-secret configuration of the wallet agent. PRIVATE_KEY is
// not part of it, only LoadTransfer reads it.
type Agent struct {
	Logger   LoggerConfig   `json:"logger"`
	Chain    ChainConfig    `json:"chain"`
	Transfer TransferConfig `json:"transfer"`
	IPFS     ipfs.Config    `json:"ipfs"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// newViper returns a viper instance reading from the process environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvIPFSAPIURL, ipfs.DefaultAPIURL)
	v.SetDefault(EnvIPFSTimeout, ipfs.DefaultTimeout)
	v.SetDefault(EnvMetricsJob, metrics.DefaultJob)
	v.SetDefault(EnvLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(EnvLogPrettyPrintConsole, false)

	return v
}

// DefaultAgentConfigFromEnv returns the agent config from the environment
// with defaults applied. It never fails, unusable values fall back to defaults
// or are reported by the command that needs them.
func DefaultAgentConfigFromEnv() Agent {
	v := newViper()

	level, err := zerolog.ParseLevel(v.GetString(EnvLogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ipfsTimeout := v.GetDuration(EnvIPFSTimeout)
	if ipfsTimeout <= 0 {
		ipfsTimeout = ipfs.DefaultTimeout
	}

	return Agent{
		Logger: LoggerConfig{
			Level:              level,
			PrettyPrintConsole: v.GetBool(EnvLogPrettyPrintConsole),
		},
		Chain: ChainConfig{
			RPCURL:  v.GetString(EnvRPCURL),
			ChainID: v.GetString(EnvChainID),
		},
		Transfer: TransferConfig{
			FromAddress: v.GetString(EnvFromAddress),
			ToAddress:   v.GetString(EnvToAddress),
			ValueWei:    v.GetString(EnvValueWei),
			MaxValueWei: v.GetString(EnvMaxValueWei),
			PolicyFile:  v.GetString(EnvPolicyFile),
		},
		IPFS: ipfs.Config{
			APIURL:  v.GetString(EnvIPFSAPIURL),
			Timeout: ipfsTimeout,
		},
		Metrics: MetricsConfig{
			PushgatewayURL: v.GetString(EnvPushgatewayURL),
			Job:            v.GetString(EnvMetricsJob),
		},
	}
}
