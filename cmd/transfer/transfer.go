package transfer

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/metrics"
	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/util/command"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/pipeline"
)

const pushTimeout = 5 * time.Second

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer",
		Short: "Runs a policy guarded native token transfer",
		Long: `Runs a policy guarded native token transfer

Reads RPC_URL, CHAIN_ID, PRIVATE_KEY, FROM_ADDRESS, TO_ADDRESS and
VALUE_WEI from ENV (all required), plus the optional MAX_VALUE_WEI
and POLICY_FILE. The sender balance is queried, the transfer is
simulated and, if the simulation succeeds and the policy allows it,
signed and broadcast. The run report is printed as JSON.

Nothing is signed or broadcast when a setting is missing, the
simulation fails or the policy rejects the transfer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string /* args */) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg := config.DefaultAgentConfigFromEnv()

	tr, err := config.LoadTransfer()
	if err != nil {
		return err
	}
	defer tr.Key.Release()

	// fail on a FROM_ADDRESS mismatch before dialing
	if _, err := pipeline.ResolveSender(tr.Request.From, tr.Key); err != nil {
		return err
	}

	recorder := metrics.NewRecorder()

	var report *pipeline.Report
	err = command.WithChainClient(ctx, tr.Endpoint, func(ctx context.Context, client *chain.Client) error {
		var runErr error
		report, runErr = pipeline.NewRunner(client, recorder).Run(ctx, &tr.Request, tr.Key, tr.Policy)
		return runErr
	})

	pushMetrics(ctx, cfg.Metrics, recorder)

	if report != nil {
		if printErr := command.PrintJSON(out, report); printErr != nil && err == nil {
			err = printErr
		}
	}

	return err
}

func pushMetrics(ctx context.Context, cfg config.MetricsConfig, recorder *metrics.Recorder) {
	if cfg.PushgatewayURL == "" {
		return
	}

	log := util.LogFromContext(ctx)

	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	instance, _ := os.Hostname()
	if err := recorder.Push(pushCtx, cfg.PushgatewayURL, cfg.Job, instance); err != nil {
		log.Warn().Err(err).Msg("Failed to push metrics")
		return
	}

	log.Debug().Str("job", cfg.Job).Msg("Pushed metrics")
}
