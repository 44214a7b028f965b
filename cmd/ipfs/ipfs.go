package ipfs

import (
	"github.com/spf13/cobra"

	"github.com/chapool/wallet-agent/internal/util/command"
)

const apiURLFlag = "api-url"

func New() *cobra.Command {
	return command.NewSubcommandGroup("ipfs",
		newAddJSON(),
	)
}
