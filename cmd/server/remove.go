package server

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
	"github.com/mozilla-ai/mcpfleet/internal/config"
	"github.com/mozilla-ai/mcpfleet/internal/flags"
)

// RemoveCmd should be used to represent the 'server remove' command.
type RemoveCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

// NewRemoveCmd creates a newly configured (Cobra) command.
func NewRemoveCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RemoveCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "remove <server-name>",
		Short: "Removes a server from the project configuration",
		Long:  "Removes a server from the project configuration, it will no longer be registered when the daemon starts",
		RunE:  c.run,
		Args:  cobra.ExactArgs(1),
	}

	return cobraCommand, nil
}

// run is configured (via NewRemoveCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *RemoveCmd) run(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}

	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if err := cfg.RemoveServer(name); err != nil {
		return err
	}

	logger.Debug("Server removed", "name", name)
	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Removed server '%s'\n", name,
	); err != nil {
		return err
	}

	return nil
}
