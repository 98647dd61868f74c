//go:build docsgen_cli
// +build docsgen_cli

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra/doc"

	"github.com/mozilla-ai/mcpfleet/cmd"
	internalcmd "github.com/mozilla-ai/mcpfleet/internal/cmd"
	"github.com/mozilla-ai/mcpfleet/internal/perms"
)

// main writes one markdown page per CLI command, replacing any previous output.
func main() {
	out := flag.String("out", "./docs/commands/", "directory to write the command reference to")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcpfleet.docsgen.cli",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	if err := generate(*out); err != nil {
		logger.Error("failed to generate CLI docs", "error", err)
		os.Exit(1)
	}

	logger.Info("CLI docs generated", "path", *out)
}

func generate(docsPath string) error {
	rootCmd, err := cmd.NewRootCmd(&cmd.RootCmd{BaseCmd: &internalcmd.BaseCmd{}})
	if err != nil {
		return fmt.Errorf("failed to create root command: %w", err)
	}

	// Omit the dated footer from every page.
	rootCmd.DisableAutoGenTag = true

	if err := os.RemoveAll(docsPath); err != nil {
		return fmt.Errorf("failed to clear docs directory (%s): %w", docsPath, err)
	}

	if err := os.MkdirAll(docsPath, perms.RegularDir); err != nil {
		return fmt.Errorf("failed to create docs directory (%s): %w", docsPath, err)
	}

	return doc.GenMarkdownTree(rootCmd, docsPath)
}
