package server

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
	"github.com/mozilla-ai/mcpfleet/internal/cmd/output"
	"github.com/mozilla-ai/mcpfleet/internal/config"
	"github.com/mozilla-ai/mcpfleet/internal/flags"
	"github.com/mozilla-ai/mcpfleet/internal/printer"
)

type ListCmd struct {
	*internalcmd.BaseCmd
	cfgLoader     config.Loader
	Format        internalcmd.OutputFormat
	serverPrinter output.Printer[config.ServerEntry]
}

func NewListCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:       baseCmd,
		cfgLoader:     opts.ConfigLoader,
		Format:        internalcmd.FormatText, // Default to plain text
		serverPrinter: printer.NewServerPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the servers in the project configuration",
		Long:  "Lists the servers in the project configuration, in the order they are registered by the daemon",
		RunE:  c.run,
		Args:  cobra.NoArgs,
	}

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cmd *cobra.Command, _ []string) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.serverPrinter)
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResults(cfg.ListServers()...)
}
