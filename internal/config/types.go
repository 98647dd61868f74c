package config

import (
	"maps"
	"slices"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Modifier = (*Config)(nil)
)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type Modifier interface {
	AddServer(entry ServerEntry) error
	RemoveServer(name string) error
	ListServers() []ServerEntry
}

type DefaultLoader struct{}

// Config represents the .mcpfleet.toml file structure.
type Config struct {
	// MetadataSchema is an optional path to a JSON schema which every server's metadata must satisfy.
	// Relative paths are resolved against the directory containing the config file.
	MetadataSchema string `json:"metadataSchema,omitempty" toml:"metadata_schema,omitempty" yaml:"metadata_schema,omitempty"`

	// Daemon holds the optional daemon settings, defaults apply to anything left unset.
	Daemon *DaemonConfig `json:"daemon,omitempty" toml:"daemon,omitempty" yaml:"daemon,omitempty"`

	// Servers are registered with the daemon when it starts.
	Servers []ServerEntry `json:"servers" toml:"servers" yaml:"servers"`

	configFilePath string `toml:"-"`
}

// ServerEntry represents the configuration of a single remote server.
type ServerEntry struct {
	// Name is the unique, human-readable name of the server, also used in its call path.
	// e.g. 'time'
	Name string `json:"name" toml:"name" yaml:"name"`

	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`

	Version string `json:"version,omitempty" toml:"version,omitempty" yaml:"version,omitempty"`

	// BaseAddress is the absolute http(s) URL the server is reachable at.
	// e.g. 'http://localhost:9000'
	BaseAddress string `json:"baseAddress" toml:"base_address" yaml:"base_address"`

	Capabilities []string `json:"capabilities,omitempty" toml:"capabilities,omitempty" yaml:"capabilities,omitempty"`

	// Metadata is free-form, validated against the metadata schema when one is configured.
	Metadata map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ServerSpec converts the entry into the registration input used by the server registry.
func (e ServerEntry) ServerSpec() domain.ServerSpec {
	return domain.ServerSpec{
		Name:         e.Name,
		Description:  e.Description,
		Version:      e.Version,
		BaseAddress:  e.BaseAddress,
		Capabilities: slices.Clone(e.Capabilities),
		Metadata:     maps.Clone(e.Metadata),
	}
}
