package server

import (
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
)

// NewServerCmd groups the commands which manage the servers seeded from the config file.
func NewServerCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "server",
		Short: "Manages the servers in the project configuration",
		Long:  "Manages the servers in the project configuration, which the daemon registers when it starts",
	}

	// Sub-commands for: mcpfleet server
	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewAddCmd,    // add
		NewRemoveCmd, // remove
		NewListCmd,   // list
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
