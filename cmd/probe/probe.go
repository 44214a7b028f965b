package probe

import (
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/util/command"
)

const (
	verboseFlag string = "verbose"
	ipfsFlag    string = "ipfs"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newReadiness(),
	)
}
