package config

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

type ShowCmd struct {
	*internalcmd.BaseCmd
	cfgLoader     config.Loader
	Format        internalcmd.OutputFormat
	configPrinter output.Printer[config.Config]
}

func NewShowCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ShowCmd{
		BaseCmd:       baseCmd,
		cfgLoader:     opts.ConfigLoader,
		Format:        internalcmd.FormatText,
		configPrinter: printer.NewConfigPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "show",
		Short: "Shows the parsed configuration",
		Long: fmt.Sprintf(
			"Shows the configuration parsed from the %s file (or the file given by --%s), after validation",
			flags.DefaultConfigFile,
			flags.FlagNameConfigFile,
		),
		RunE: c.run,
		Args: cobra.NoArgs,
	}

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ShowCmd) run(cmd *cobra.Command, _ []string) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.configPrinter)
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(*cfg)
}
