//go:build docsgen_api
// +build docsgen_api

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpfleet/internal/api"
	"github.com/mozilla-ai/mcpfleet/internal/discovery"
	"github.com/mozilla-ai/mcpfleet/internal/forward"
	"github.com/mozilla-ai/mcpfleet/internal/health"
	"github.com/mozilla-ai/mcpfleet/internal/perms"
	"github.com/mozilla-ai/mcpfleet/internal/registry"
)

// main writes the OpenAPI specification for the mcpfleet API.
// Components are built against an empty registry, nothing is served or probed.
func main() {
	out := flag.String("out", "./docs/api/openapi.yaml", "path to write the OpenAPI spec to")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcpfleet.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	if err := generate(logger, *out); err != nil {
		logger.Error("failed to generate OpenAPI spec", "error", err)
		os.Exit(1)
	}
}

func generate(logger hclog.Logger, outputPath string) error {
	quiet := hclog.NewNullLogger()

	reg, err := registry.NewRegistry(quiet)
	if err != nil {
		return err
	}

	prober, err := health.NewProber(quiet, reg)
	if err != nil {
		return err
	}

	forwarder, err := forward.NewForwarder(quiet, reg)
	if err != nil {
		return err
	}

	aggregator, err := discovery.NewAggregator(quiet, reg, forwarder)
	if err != nil {
		return err
	}

	// Same router setup as the daemon.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	router := humachi.New(mux, huma.DefaultConfig("mcpfleet docs", api.APIVersion))

	apiPathPrefix, err := api.RegisterRoutes(router, reg, prober, forwarder, aggregator)
	if err != nil {
		return fmt.Errorf("failed to register API routes: %w", err)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		return fmt.Errorf("failed to render OpenAPI YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), perms.RegularDir); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write OpenAPI spec (%s): %w", outputPath, err)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))

	return nil
}
