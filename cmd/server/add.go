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

const flagNameAddress = "address"

// AddCmd should be used to represent the 'server add' command.
type AddCmd struct {
	*cmd.BaseCmd
	Address      string
	Description  string
	Version      string
	Capabilities []string
	Metadata     map[string]string
	cfgLoader    config.Loader
}

// NewAddCmd creates a newly configured (Cobra) command.
func NewAddCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &AddCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "add <server-name> --address <url>",
		Short: "Adds a server to the project configuration",
		Long: "Adds a server to the project configuration. " +
			"The entry is validated (including its metadata, when a metadata schema is configured) before it is saved",
		RunE: c.run,
		Args: cobra.ExactArgs(1),
	}

	cobraCommand.Flags().StringVar(
		&c.Address,
		flagNameAddress,
		"",
		"Base address of the server, an absolute http(s) URL (e.g. http://localhost:9000)",
	)
	_ = cobraCommand.MarkFlagRequired(flagNameAddress)

	cobraCommand.Flags().StringVar(
		&c.Description,
		"description",
		"",
		"Optional, a human-readable description of the server",
	)

	cobraCommand.Flags().StringVar(
		&c.Version,
		"version",
		"",
		"Optional, the version of the server",
	)

	cobraCommand.Flags().StringSliceVar(
		&c.Capabilities,
		"capability",
		nil,
		"Optional, a capability the server offers (can be repeated or comma separated)",
	)

	cobraCommand.Flags().StringToStringVar(
		&c.Metadata,
		"metadata",
		nil,
		"Optional, metadata for the server as key=value pairs (can be repeated)",
	)

	return cobraCommand, nil
}

// run is configured (via NewAddCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *AddCmd) run(cmd *cobra.Command, args []string) error {
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

	entry := config.ServerEntry{
		Name:         name,
		Description:  strings.TrimSpace(c.Description),
		Version:      strings.TrimSpace(c.Version),
		BaseAddress:  strings.TrimSpace(c.Address),
		Capabilities: c.capabilities(),
		Metadata:     c.metadata(),
	}

	if err := cfg.AddServer(entry); err != nil {
		return err
	}

	logger.Debug("Server added", "name", name, "address", entry.BaseAddress)
	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Added server '%s' (%s)\n", name, entry.BaseAddress,
	); err != nil {
		return err
	}

	return nil
}

// capabilities returns the trimmed, non-empty capabilities in the order supplied.
func (c *AddCmd) capabilities() []string {
	var out []string
	for _, capability := range c.Capabilities {
		if capability = strings.TrimSpace(capability); capability != "" {
			out = append(out, capability)
		}
	}
	return out
}

func (c *AddCmd) metadata() map[string]any {
	if len(c.Metadata) == 0 {
		return nil
	}

	out := make(map[string]any, len(c.Metadata))
	for k, v := range c.Metadata {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
