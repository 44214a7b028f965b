package simulate

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/util/command"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/pipeline"
	"github.com/chapool/wallet-agent/internal/wallet/simulate"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Estimates the gas of the configured transfer without sending it",
		Long: `Estimates the gas of the configured transfer without sending it

Reads the same ENV as the transfer command. The simulation result is
printed as JSON, a failed simulation exits non zero. Nothing is ever
broadcast.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string /* args */) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func run(ctx context.Context, out io.Writer) error {
	tr, err := config.LoadTransfer()
	if err != nil {
		return err
	}
	defer tr.Key.Release()

	if _, err := pipeline.ResolveSender(tr.Request.From, tr.Key); err != nil {
		return err
	}

	return command.WithChainClient(ctx, tr.Endpoint, func(ctx context.Context, client *chain.Client) error {
		res := simulate.NewService(client.Reader()).Simulate(ctx, &tr.Request, tr.Key)

		if err := command.PrintJSON(out, res); err != nil {
			return err
		}

		return res.Err()
	})
}
