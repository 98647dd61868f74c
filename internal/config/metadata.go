package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaPath returns the location of the metadata schema, resolved against the config file's directory.
// It returns an empty string when no schema is configured.
func (c *Config) SchemaPath() string {
	p := strings.TrimSpace(c.MetadataSchema)
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) || c.configFilePath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.configFilePath), p)
}

// validateMetadata checks every server's metadata against the configured JSON schema.
// Servers without metadata are validated as an empty object, so required properties are still enforced.
func (c *Config) validateMetadata() error {
	path := c.SchemaPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading metadata schema (%s): %w", path, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid metadata schema (%s): %w", path, err)
	}

	var errs []error
	for _, entry := range c.Servers {
		metadata := entry.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}

		result, err := schema.Validate(gojsonschema.NewGoLoader(metadata))
		if err != nil {
			errs = append(errs, fmt.Errorf("server '%s': %w", entry.Name, err))
			continue
		}

		for _, re := range result.Errors() {
			errs = append(errs, fmt.Errorf("server '%s': %s: %s", entry.Name, re.Field(), re.Description()))
		}
	}

	return errors.Join(errs...)
}
