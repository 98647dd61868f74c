package config

import (
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
)

func NewConfigCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspects the project configuration",
		Long:  "Inspects the project configuration file, including daemon settings and the servers seeded at startup",
	}

	// Sub-commands for: mcpfleet config
	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewShowCmd, // show
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
