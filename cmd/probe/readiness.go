package probe

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/ipfs"
	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/util/command"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
)

const (
	readinessTimeout = 10 * time.Second

	statusOK = "ok"
)

type ReadinessFlags struct {
	Verbose bool
	IPFS    bool
}

// ReadinessResult maps each probed dependency to "ok" or its error.
type ReadinessResult struct {
	RPC  string `json:"rpc"`
	IPFS string `json:"ipfs,omitempty"`
}

func newReadiness() *cobra.Command {
	var flags ReadinessFlags

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `Runs connection readiness probes

Checks that the RPC node at RPC_URL answers and serves CHAIN_ID.
The IPFS API is checked too when IPFS_API_URL is set or --ipfs is
given. The results are printed as JSON, any failed probe exits non
zero.

Use this to ensure all requirements are fulfilled before running a
transfer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string /* args */) error {
			if !cmd.Flags().Changed(ipfsFlag) {
				flags.IPFS = os.Getenv(config.EnvIPFSAPIURL) != ""
			}
			return readinessCmdFunc(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Show verbose output.")
	cmd.Flags().BoolVar(&flags.IPFS, ipfsFlag, false, "Also probe the IPFS API.")

	return cmd
}

func readinessCmdFunc(ctx context.Context, out io.Writer, flags ReadinessFlags) error {
	result, errs := RunReadiness(ctx, config.DefaultAgentConfigFromEnv(), flags)

	if err := command.PrintJSON(out, result); err != nil {
		return err
	}

	if len(errs) > 0 {
		return errors.Errorf("unhealthy: %d of the readiness probes failed: %v", len(errs), errs)
	}

	return nil
}

// RunReadiness probes every configured dependency and returns all failures.
func RunReadiness(ctx context.Context, cfg config.Agent, flags ReadinessFlags) (ReadinessResult, []error) {
	log := util.LogFromContext(ctx)

	readinessCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	var (
		result ReadinessResult
		errs   []error
	)

	if err := probeRPC(readinessCtx); err != nil {
		errs = append(errs, errors.Wrap(err, "rpc probe failed"))
		result.RPC = err.Error()
	} else {
		result.RPC = statusOK
	}

	if flags.IPFS {
		version, err := probeIPFS(readinessCtx, cfg.IPFS)
		if err != nil {
			errs = append(errs, errors.Wrap(err, "ipfs probe failed"))
			result.IPFS = err.Error()
		} else {
			result.IPFS = statusOK
			if flags.Verbose {
				log.Info().Str("version", version).Msg("IPFS node is ready")
			}
		}
	}

	if flags.Verbose {
		if len(errs) > 0 {
			log.Info().Errs("errs", errs).Msg("Readiness check failed")
		} else {
			log.Info().Msg("Readiness check passed")
		}
	}

	return result, errs
}

func probeRPC(ctx context.Context) error {
	endpoint, err := config.LoadEndpoint()
	if err != nil {
		return err
	}

	return command.WithChainClient(ctx, endpoint, func(context.Context, *chain.Client) error {
		return nil
	})
}

func probeIPFS(ctx context.Context, cfg ipfs.Config) (string, error) {
	client, err := ipfs.NewClient(cfg)
	if err != nil {
		return "", err
	}

	return client.Version(ctx)
}
