package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chapool/wallet-agent/cmd/balance"
	"github.com/chapool/wallet-agent/cmd/env"
	"github.com/chapool/wallet-agent/cmd/ipfs"
	"github.com/chapool/wallet-agent/cmd/probe"
	"github.com/chapool/wallet-agent/cmd/simulate"
	"github.com/chapool/wallet-agent/cmd/transfer"
	"github.com/chapool/wallet-agent/cmd/txstatus"
	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

const (
	envFileFlag  = "env-file"
	logLevelFlag = "log-level"
	prettyFlag   = "pretty"
)

// NewRootCommand builds the command tree. Results go to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Version: config.GetFormattedBuildArgs(),
		Use:     "wallet-agent",
		Short:   config.ModuleName,
		Long: fmt.Sprintf(`%v

A guarded EVM wallet agent: balance query, transfer simulation and
policy-bounded transfers, plus a JSON to IPFS utility.
Requires configuration through ENV, optionally from a dotenv file.`, config.ModuleName),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd.Flags(), errOut)
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().String(envFileFlag, config.DefaultEnvFile, "dotenv file to load, existing ENV always wins")
	rootCmd.PersistentFlags().String(logLevelFlag, "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().Bool(prettyFlag, false, "human readable console logs, overrides LOG_PRETTY_PRINT_CONSOLE")

	// attach the subcommands
	rootCmd.AddCommand(
		balance.New(),
		env.New(),
		ipfs.New(),
		probe.New(),
		simulate.New(),
		transfer.New(),
		txstatus.New(),
	)

	return rootCmd
}

func setup(flags *pflag.FlagSet, errOut io.Writer) error {
	envFile, err := flags.GetString(envFileFlag)
	if err != nil {
		return err
	}
	loaded, err := config.LoadEnvFile(envFile, flags.Changed(envFileFlag))
	if err != nil {
		return errs.NewConfigurationError("ENV_FILE", err)
	}

	cfg := config.DefaultAgentConfigFromEnv()

	if flags.Changed(logLevelFlag) {
		raw, _ := flags.GetString(logLevelFlag)
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			return errs.NewConfigurationError(config.EnvLogLevel, err)
		}
		cfg.Logger.Level = level
	}
	if flags.Changed(prettyFlag) {
		cfg.Logger.PrettyPrintConsole, _ = flags.GetBool(prettyFlag)
	}

	util.ConfigureLogger(errOut, cfg.Logger.Level, cfg.Logger.PrettyPrintConsole)

	if loaded {
		log.Debug().Str("path", envFile).Msg("Loaded env file")
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		log.Error().Err(err).Str("kind", errs.Kind(err)).Msg("Failed to execute command")
		os.Exit(1)
	}
}
