package balance

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/util/command"
	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/balance"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Prints the native token balance of an address",
		Long: `Prints the native token balance of an address

Defaults to FROM_ADDRESS when no address is given. Needs RPC_URL and
CHAIN_ID. The balance is printed as JSON in wei and ether.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr string
			if len(args) > 0 {
				addr = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), addr)
		},
	}
}

func run(ctx context.Context, out io.Writer, addr string) error {
	if addr == "" {
		addr = config.DefaultAgentConfigFromEnv().Transfer.FromAddress
		if addr == "" {
			return errs.NewMissingConfigError(config.EnvFromAddress)
		}
	}

	// reject malformed input before dialing
	if _, err := address.Parse(addr); err != nil {
		return err
	}

	endpoint, err := config.LoadEndpoint()
	if err != nil {
		return err
	}

	return command.WithChainClient(ctx, endpoint, func(ctx context.Context, client *chain.Client) error {
		bal, err := balance.NewService(client.Reader()).GetBalance(ctx, addr)
		if err != nil {
			return err
		}

		return command.PrintJSON(out, bal)
	})
}
