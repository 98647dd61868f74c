package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpfleet/internal/cmd/options"
	"github.com/mozilla-ai/mcpfleet/internal/config"
	"github.com/mozilla-ai/mcpfleet/internal/daemon"
)

// fileLoader loads a fixed file regardless of the path it is given.
type fileLoader struct {
	path string
}

func (l *fileLoader) Load(_ string) (*config.Config, error) {
	return (&config.DefaultLoader{}).Load(l.path)
}

type errLoader struct {
	err error
}

func (l *errLoader) Load(_ string) (*config.Config, error) {
	return nil, l.err
}

func ptr[T any](v T) *T {
	return &v
}

func duration(d time.Duration) *config.Duration {
	return ptr(config.Duration(d))
}

func TestDaemon_NewDaemonCmd_Flags(t *testing.T) {
	t.Parallel()

	cobraCmd, err := NewDaemonCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(&errLoader{}))
	require.NoError(t, err)

	flags := cobraCmd.Flags()

	devFlag := flags.Lookup(flagNameDev)
	require.NotNil(t, devFlag)
	assert.Equal(t, "false", devFlag.DefValue)

	addrFlag := flags.Lookup(flagNameAddr)
	require.NotNil(t, addrFlag)
	assert.Equal(t, "0.0.0.0:8090", addrFlag.DefValue)

	intervalFlag := flags.Lookup(flagNameHealthCheckInterval)
	require.NotNil(t, intervalFlag)
	assert.Equal(t, "0s", intervalFlag.DefValue)
}

func TestDaemon_NewDaemonCmd_InvalidOption(t *testing.T) {
	t.Parallel()

	_, err := NewDaemonCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(nil))
	require.EqualError(t, err, "config loader cannot be nil")
}

func TestDaemon_DaemonCmd_FlagMutualExclusion(t *testing.T) {
	t.Parallel()

	cobraCmd, err := NewDaemonCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(&errLoader{}))
	require.NoError(t, err)

	cobraCmd.SetArgs([]string{"--dev", "--addr=localhost:9000"})
	cobraCmd.SetOut(io.Discard)
	cobraCmd.SetErr(io.Discard)

	err = cobraCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "if any flags in the group [dev addr] are set none of the others can be")
}

func TestDaemon_DaemonCmd_RunErrors(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, content string) config.Loader {
		t.Helper()

		path := filepath.Join(t.TempDir(), ".mcpfleet.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return &fileLoader{path: path}
	}

	tests := []struct {
		name    string
		loader  func(t *testing.T) config.Loader
		args    []string
		wantErr string
	}{
		{
			name: "config load failure",
			loader: func(*testing.T) config.Loader {
				return &errLoader{err: fmt.Errorf("config file cannot be found, run: 'mcpfleet init'")}
			},
			wantErr: "config file cannot be found, run: 'mcpfleet init'",
		},
		{
			name: "invalid address flag",
			loader: func(t *testing.T) config.Loader {
				return writeConfig(t, "")
			},
			args:    []string{"--addr", "nope"},
			wantErr: "address nope: missing port in address",
		},
		{
			name: "probe timeout exceeds default forward timeout",
			loader: func(t *testing.T) config.Loader {
				return writeConfig(t, "[daemon]\nprobe_timeout = \"40s\"\n")
			},
			wantErr: "forward timeout (30s) must be longer than probe timeout (40s)",
		},
		{
			name: "negative health check interval flag",
			loader: func(t *testing.T) config.Loader {
				return writeConfig(t, "")
			},
			args:    []string{"--health-check-interval=-1s"},
			wantErr: "failed to create mcpfleet daemon instance",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cobraCmd, err := NewDaemonCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(tc.loader(t)))
			require.NoError(t, err)

			cobraCmd.SetArgs(append([]string{}, tc.args...))
			cobraCmd.SetOut(io.Discard)
			cobraCmd.SetErr(io.Discard)

			err = cobraCmd.Execute()
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDaemon_DaemonCmd_ResolveAddr(t *testing.T) {
	t.Parallel()

	configured := &config.DaemonConfig{Addr: ptr(" 127.0.0.1:7000 ")}

	tests := []struct {
		name   string
		dev    bool
		args   []string
		daemon *config.DaemonConfig
		want   string
	}{
		{name: "default", want: defaultAddr},
		{name: "config file", daemon: configured, want: "127.0.0.1:7000"},
		{name: "config without addr", daemon: &config.DaemonConfig{}, want: defaultAddr},
		{name: "flag overrides config", args: []string{"--addr", "localhost:9999"}, daemon: configured, want: "localhost:9999"},
		{name: "dev overrides everything", dev: true, daemon: configured, want: devAddr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := &DaemonCmd{BaseCmd: &cmd.BaseCmd{}, Dev: tc.dev}
			cobraCmd := &cobra.Command{}
			cobraCmd.Flags().StringVar(&c.Addr, flagNameAddr, defaultAddr, "")
			require.NoError(t, cobraCmd.Flags().Parse(tc.args))

			require.Equal(t, tc.want, c.resolveAddr(cobraCmd, tc.daemon, hclog.NewNullLogger()))
		})
	}
}

func TestDaemon_DaemonOptions(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, daemonOptions(nil))

		opts, err := daemon.NewOptions(daemonOptions(&config.DaemonConfig{})...)
		require.NoError(t, err)
		require.Equal(t, daemon.DefaultHealthCheckInterval(), opts.HealthCheckInterval)
		require.Empty(t, opts.APIOptions)
	})

	t.Run("every setting is mapped", func(t *testing.T) {
		t.Parallel()

		d := &config.DaemonConfig{
			ProbeTimeout:         duration(2 * time.Second),
			ForwardTimeout:       duration(20 * time.Second),
			HealthCheckInterval:  duration(time.Minute),
			ProbeConcurrency:     ptr(3),
			DiscoveryConcurrency: ptr(5),
			ShutdownTimeout:      duration(7 * time.Second),
			CORS: &config.CORSConfigSection{
				Enable:      ptr(true),
				Origins:     []string{"http://localhost:3000"},
				Credentials: ptr(true),
				MaxAge:      duration(time.Hour),
			},
		}

		opts, err := daemon.NewOptions(daemonOptions(d)...)
		require.NoError(t, err)
		require.Equal(t, 2*time.Second, opts.ProbeTimeout)
		require.Equal(t, 20*time.Second, opts.ForwardTimeout)
		require.Equal(t, time.Minute, opts.HealthCheckInterval)
		require.Equal(t, 3, opts.ProbeConcurrency)
		require.Equal(t, 5, opts.DiscoveryConcurrency)

		apiOpts, err := daemon.NewAPIOptions(opts.APIOptions...)
		require.NoError(t, err)
		require.Equal(t, 7*time.Second, apiOpts.ShutdownTimeout)
		require.True(t, apiOpts.CORS.Enabled)
		require.Equal(t, []string{"http://localhost:3000"}, apiOpts.CORS.AllowOrigins)
		require.True(t, apiOpts.CORS.AllowCredentials)
		require.Equal(t, time.Hour, apiOpts.CORS.MaxAge)
	})

	t.Run("disabled CORS section", func(t *testing.T) {
		t.Parallel()

		d := &config.DaemonConfig{CORS: &config.CORSConfigSection{}}

		opts, err := daemon.NewOptions(daemonOptions(d)...)
		require.NoError(t, err)

		apiOpts, err := daemon.NewAPIOptions(opts.APIOptions...)
		require.NoError(t, err)
		require.False(t, apiOpts.CORS.Enabled)
	})
}

func TestDaemon_PrintDevBanner(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cobraCmd := &cobra.Command{}
	cobraCmd.SetOut(&out)

	c := &DaemonCmd{BaseCmd: &cmd.BaseCmd{}}
	c.printDevBanner(cobraCmd, devAddr, 2)

	require.Contains(t, out.String(), "mcpfleet daemon running in 'dev' mode.")
	require.Contains(t, out.String(), "http://localhost:8090/api/v1")
	require.Contains(t, out.String(), "http://localhost:8090/docs")
	require.Contains(t, out.String(), "Servers:\t2\n")
	require.Contains(t, out.String(), "Press Ctrl+C to stop.")
}
