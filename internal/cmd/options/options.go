package options

import (
	"fmt"

	"github.com/mozilla-ai/mcpfleet/internal/config"
)

type CmdOption func(*CmdOptions) error

// CmdOptions holds the collaborators commands use to read and write configuration.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if i == nil {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}
