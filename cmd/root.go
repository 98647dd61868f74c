package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/mozilla-ai/mcpfleet/cmd/config"
	"github.com/mozilla-ai/mcpfleet/cmd/server"
	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
	"github.com/mozilla-ai/mcpfleet/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

// RootCmd should be used to represent the top level 'mcpfleet' command.
type RootCmd struct {
	*cmd.BaseCmd
}

type createCmdFunc func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error)

// Execute builds the command tree and runs it against the process arguments.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           cmd.AppName + " <command> [args]",
		Short:         "'mcpfleet' manages a fleet of remote MCP servers.",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []createCmdFunc{
		NewInitCmd,
		NewDaemonCmd,
		configcmd.NewConfigCmd,
		server.NewServerCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcpfleet' CLI manages the project configuration for a fleet of remote MCP servers,
and runs the daemon which registers, health checks and routes calls to them over an HTTP API.`
}
