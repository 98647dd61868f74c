package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "MCPFLEET_CONFIG_FILE"
	EnvVarLogPath    = "MCPFLEET_LOG_PATH"
	EnvVarLogLevel   = "MCPFLEET_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".mcpfleet.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
)

// InitFlags registers the global flags on the supplied flag set.
// Each flag defaults to its environment variable when set, falling back to the package default.
func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		ConfigFile = envOrDefault(EnvVarConfigFile, DefaultConfigFile)
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		LogPath = envOrDefault(EnvVarLogPath, DefaultLogPath)
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		LogLevel = strings.ToLower(envOrDefault(EnvVarLogLevel, DefaultLogLevel))
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for mcpfleet logs (trace, debug, info, warn, error, off)")
}

func envOrDefault(key string, def string) string {
	if env := strings.TrimSpace(os.Getenv(key)); env != "" {
		return env
	}
	return def
}
