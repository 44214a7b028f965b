package command

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/wallet/chain"
)

// NewSubcommandGroup returns a command that only groups the given subcommands
// and prints its help when called on its own.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: use + " related subcommands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithChainClient connects to the endpoint, runs f and closes the connection
// again. The error of f is returned as is.
func WithChainClient(ctx context.Context, endpoint chain.Endpoint, f func(ctx context.Context, client *chain.Client) error) error {
	client, err := chain.Dial(ctx, endpoint)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to connect to RPC node")
		return err
	}
	defer client.Close()

	return f(ctx, client)
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON output")
	}

	return nil
}
