package ipfs

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chapool/wallet-agent/internal/config"
	"github.com/chapool/wallet-agent/internal/ipfs"
	"github.com/chapool/wallet-agent/internal/util/command"
)

const maxInputBytes = 32 << 20

type AddJSONFlags struct {
	APIURL string
}

type addJSONResult struct {
	CID string `json:"cid"`
}

func newAddJSON() *cobra.Command {
	var flags AddJSONFlags

	cmd := &cobra.Command{
		Use:   "add-json [file]",
		Short: "Stores a JSON document on IPFS and prints its CID",
		Long: `Stores a JSON document on IPFS and prints its CID

Reads the document from file, or from stdin when file is omitted or
"-". Any JSON value is accepted, input that is not valid JSON is
rejected. A leading UTF-8 byte order mark is dropped. The node
is taken from IPFS_API_URL unless --api-url is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			return runAddJSON(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), path, flags)
		},
	}

	cmd.Flags().StringVar(&flags.APIURL, apiURLFlag, "", "IPFS API URL, overrides IPFS_API_URL")

	return cmd
}

func runAddJSON(ctx context.Context, in io.Reader, out io.Writer, path string, flags AddJSONFlags) error {
	payload, err := readInput(in, path)
	if err != nil {
		return err
	}

	// validate before touching the network
	payload, err = ipfs.CheckJSON(payload)
	if err != nil {
		return err
	}

	cfg := config.DefaultAgentConfigFromEnv().IPFS
	if flags.APIURL != "" {
		cfg.APIURL = flags.APIURL
	}

	client, err := ipfs.NewClient(cfg)
	if err != nil {
		return err
	}

	cid, err := client.AddRawJSON(ctx, payload)
	if err != nil {
		return err
	}

	return command.PrintJSON(out, addJSONResult{CID: cid})
}

func readInput(in io.Reader, path string) ([]byte, error) {
	if path == "-" {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errors.New("no input: pass a file or pipe the JSON document to stdin")
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open input")
		}
		defer f.Close()
		in = f
	}

	payload, err := io.ReadAll(io.LimitReader(in, maxInputBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}
	if len(payload) > maxInputBytes {
		return nil, errors.Errorf("input exceeds %d bytes", maxInputBytes)
	}

	return payload, nil
}
