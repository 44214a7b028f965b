package txstatus

import (
	"context"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/util/command"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "tx-status <tx-hash>",
		Short: "Prints the status of a transaction",
		Long: `Prints the status of a transaction

Looks the transaction up by hash and prints sender, recipient, value
and, once mined, block and receipt status as JSON. Needs RPC_URL and
CHAIN_ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func run(ctx context.Context, out io.Writer, rawHash string) error {
	hash, err := parseHash(rawHash)
	if err != nil {
		return err
	}

	endpoint, err := config.LoadEndpoint()
	if err != nil {
		return err
	}

	return command.WithChainClient(ctx, endpoint, func(ctx context.Context, client *chain.Client) error {
		status, err := client.Reader().TransactionStatus(ctx, hash)
		if err != nil {
			return err
		}

		return command.PrintJSON(out, status)
	})
}

func parseHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)

	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "invalid transaction hash %q", s)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, errors.Errorf("invalid transaction hash %q: expected %d bytes, got %d", s, common.HashLength, len(b))
	}

	return common.BytesToHash(b), nil
}
