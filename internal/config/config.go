package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/perms"
)

// skeleton is written by Init, every setting shown matches its default.
const skeleton = `# mcpfleet configuration.

# Optional JSON schema that every server's metadata table must satisfy.
# metadata_schema = "metadata.schema.json"

[daemon]
addr = "0.0.0.0:8090"
probe_timeout = "10s"
forward_timeout = "30s"
# 0s disables background health checks.
health_check_interval = "0s"

[daemon.cors]
enable = false

# [[servers]]
# name = "time"
# description = "Current time in any timezone"
# base_address = "http://localhost:9000"
# capabilities = ["tools"]
#
# [servers.metadata]
# owner = "platform"
`

// Init creates the base skeleton configuration file for the mcpfleet project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), perms.RegularDir); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(skeleton), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the config file at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'mcpfleet init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	// Track the path that loaded this file, relative schema paths are resolved against it.
	cfg.configFilePath = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

// Path returns the file this configuration was loaded from.
func (c *Config) Path() string {
	return c.configFilePath
}

// AddServer attempts to persist a new server to the configuration file (.mcpfleet.toml).
func (c *Config) AddServer(entry ServerEntry) error {
	prev := c.Servers
	c.Servers = append(slices.Clone(c.Servers), entry)

	if err := c.validate(); err != nil {
		c.Servers = prev
		return err
	}

	if err := c.saveConfig(); err != nil {
		c.Servers = prev
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// RemoveServer removes a server entry by name from the configuration file (.mcpfleet.toml).
func (c *Config) RemoveServer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}

	filtered := slices.DeleteFunc(slices.Clone(c.Servers), func(s ServerEntry) bool {
		return s.Name == name
	})

	if len(filtered) == len(c.Servers) {
		return fmt.Errorf("server '%s' not found in config", name)
	}

	prev := c.Servers
	c.Servers = filtered

	if err := c.saveConfig(); err != nil {
		c.Servers = prev
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// ListServers returns a copy of the currently configured server entries.
func (c *Config) ListServers() []ServerEntry {
	return slices.Clone(c.Servers)
}

// ServerSpecs returns the registration input for every configured server, in file order.
func (c *Config) ServerSpecs() []domain.ServerSpec {
	specs := make([]domain.ServerSpec, len(c.Servers))
	for i, s := range c.Servers {
		specs[i] = s.ServerSpec()
	}
	return specs
}

func (c *Config) saveConfig() error {
	if c.configFilePath == "" {
		return fmt.Errorf("config file path not present")
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configFilePath, data, perms.RegularFile)
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if err := c.validateServers(); err != nil {
		return err
	}

	if c.Daemon != nil {
		if err := c.Daemon.Validate(); err != nil {
			return fmt.Errorf("daemon configuration error: %w", err)
		}
	}

	if err := c.validateMetadata(); err != nil {
		return fmt.Errorf("server metadata error: %w", err)
	}

	return nil
}

// validateServers ensures every entry has a unique name and a usable base address.
func (c *Config) validateServers() error {
	seen := map[string]struct{}{}
	var errs []error

	for _, entry := range c.Servers {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("server entry has empty name"))
			continue
		}
		if _, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("duplicate server name '%s'", name))
			continue
		}
		seen[name] = struct{}{}

		if err := validateBaseAddress(entry.BaseAddress); err != nil {
			errs = append(errs, fmt.Errorf("server '%s': %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// validateBaseAddress requires an absolute http or https URL with a host.
func validateBaseAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("base address cannot be empty")
	}

	u, err := url.Parse(addr)
	if err != nil {
		return NewErrInvalidValue("base_address", addr)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base address must be an absolute http(s) URL", NewErrInvalidValue("base_address", addr))
	}

	return nil
}
