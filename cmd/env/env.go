package env

import (
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the env",
		Long: `Prints the currently applied env

Secrets such as PRIVATE_KEY are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string /* args */) error {
			return command.PrintJSON(cmd.OutOrStdout(), config.DefaultAgentConfigFromEnv())
		},
	}
}
