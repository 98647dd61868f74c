package options

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/config"
)

type fakeLoader struct {
	config.Loader
}

type fakeInitializer struct {
	config.Initializer
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	require.IsType(t, &config.DefaultLoader{}, opts.ConfigLoader)
	require.IsType(t, &config.DefaultLoader{}, opts.ConfigInitializer)
}

func TestNewOptions(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	initializer := &fakeInitializer{}

	opts, err := NewOptions(nil, WithConfigLoader(loader), WithConfigInitializer(initializer))
	require.NoError(t, err)
	require.Same(t, loader, opts.ConfigLoader)
	require.Same(t, initializer, opts.ConfigInitializer)
}

func TestNewOptions_Nil(t *testing.T) {
	t.Parallel()

	_, err := NewOptions(WithConfigLoader(nil))
	require.EqualError(t, err, "config loader cannot be nil")

	_, err = NewOptions(WithConfigInitializer(nil))
	require.EqualError(t, err, "config initializer cannot be nil")
}
