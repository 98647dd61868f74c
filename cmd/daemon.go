package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
	"github.com/mozilla-ai/mcpfleet/internal/config"
	"github.com/mozilla-ai/mcpfleet/internal/daemon"
	"github.com/mozilla-ai/mcpfleet/internal/flags"
)

const (
	defaultAddr = "0.0.0.0:8090"
	devAddr     = "localhost:8090"

	flagNameAddr                = "addr"
	flagNameDev                 = "dev"
	flagNameHealthCheckInterval = "health-check-interval"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev                 bool
	Addr                string
	HealthCheckInterval time.Duration
	cfgLoader           config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches an `mcpfleet` daemon instance",
		Long: "Launches an `mcpfleet` daemon instance, which registers the configured servers " +
			"and provides health checks, call routing and tool discovery via HTTP API",
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagNameDev,
		false,
		"Run the daemon in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagNameAddr,
		defaultAddr,
		"Address for the daemon to bind (not applicable in --dev mode), overrides the config file",
	)

	cobraCommand.Flags().DurationVar(
		&c.HealthCheckInterval,
		flagNameHealthCheckInterval,
		daemon.DefaultHealthCheckInterval(),
		"How often to probe every server in the background (0 disables), overrides the config file",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagNameDev, flagNameAddr)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	addr := c.resolveAddr(cobraCmd, cfg.Daemon, logger)
	if err := daemon.IsValidAddr(addr); err != nil {
		return err
	}

	opts := daemonOptions(cfg.Daemon)
	if cobraCmd.Flags().Changed(flagNameHealthCheckInterval) {
		opts = append(opts, daemon.WithHealthCheckInterval(c.HealthCheckInterval))
	}

	deps, err := daemon.NewDependencies(logger, addr, cfg.ServerSpecs())
	if err != nil {
		return fmt.Errorf("error configuring mcpfleet daemon dependencies: %w", err)
	}

	d, err := daemon.NewDaemon(deps, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mcpfleet daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	if c.Dev {
		c.printDevBanner(cobraCmd, addr, len(cfg.Servers))
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		if err != nil {
			logger.Error("daemon exited with error", "error", err)
		}
		return err // Propagate daemon failure.
	}
}

// resolveAddr picks the bind address: --dev, then an explicit --addr, then the config file, then the default.
func (c *DaemonCmd) resolveAddr(cobraCmd *cobra.Command, d *config.DaemonConfig, logger hclog.Logger) string {
	if c.Dev {
		logger.Info("Development-focused mode", "override", devAddr)
		return devAddr
	}

	if cobraCmd.Flags().Changed(flagNameAddr) || d == nil || d.Addr == nil {
		return strings.TrimSpace(c.Addr)
	}

	return strings.TrimSpace(*d.Addr)
}

func (c *DaemonCmd) printDevBanner(cobraCmd *cobra.Command, addr string, servers int) {
	banner := fmt.Sprintf("mcpfleet daemon running in 'dev' mode.\n\n"+
		"  Local API:\thttp://%s/api/v1\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Config file:\t%s\n"+
		"  Servers:\t%d\n",
		addr, addr, flags.ConfigFile, servers)

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(cobraCmd.OutOrStdout(), banner)
}

// daemonOptions converts the optional daemon section of the config file into daemon options.
// Settings which are absent are left to the daemon defaults.
func daemonOptions(d *config.DaemonConfig) []daemon.Option {
	if d == nil {
		return nil
	}

	var opts []daemon.Option
	var apiOpts []daemon.APIOption

	if d.ProbeTimeout != nil {
		opts = append(opts, daemon.WithProbeTimeout(time.Duration(*d.ProbeTimeout)))
	}
	if d.ForwardTimeout != nil {
		opts = append(opts, daemon.WithForwardTimeout(time.Duration(*d.ForwardTimeout)))
	}
	if d.HealthCheckInterval != nil {
		opts = append(opts, daemon.WithHealthCheckInterval(time.Duration(*d.HealthCheckInterval)))
	}
	if d.ProbeConcurrency != nil {
		opts = append(opts, daemon.WithProbeConcurrency(*d.ProbeConcurrency))
	}
	if d.DiscoveryConcurrency != nil {
		opts = append(opts, daemon.WithDiscoveryConcurrency(*d.DiscoveryConcurrency))
	}
	if d.ShutdownTimeout != nil {
		apiOpts = append(apiOpts, daemon.WithShutdownTimeout(time.Duration(*d.ShutdownTimeout)))
	}

	if cors := d.CORS; cors != nil {
		apiOpts = append(apiOpts, daemon.WithCORSEnabled(cors.EnableOrDefault(false)))
		if len(cors.Origins) > 0 {
			apiOpts = append(apiOpts, daemon.WithCORSAllowOrigins(cors.Origins))
		}
		if cors.Credentials != nil {
			apiOpts = append(apiOpts, daemon.WithCORSAllowCredentials(*cors.Credentials))
		}
		if cors.MaxAge != nil {
			apiOpts = append(apiOpts, daemon.WithCORSMaxAge(time.Duration(*cors.MaxAge)))
		}
	}

	if len(apiOpts) > 0 {
		opts = append(opts, daemon.WithAPIOptions(apiOpts...))
	}

	return opts
}
