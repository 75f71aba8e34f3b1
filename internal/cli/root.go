// Package cli implements the elixir-sense command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/smaximov/elixir-sense/internal/config"
	"github.com/smaximov/elixir-sense/pkg/beam"
	"github.com/smaximov/elixir-sense/pkg/docs"
	"github.com/smaximov/elixir-sense/pkg/markup"
)

// Execute creates and runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the elixir-sense command tree.
func NewRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:          "elixir-sense",
		Short:        "Documentation tooling for compiled BEAM modules",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file")
	flags.StringArrayVar(&opts.codePaths, "code-path", nil, "Directory searched for .beam files (repeatable)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.logPretty, "log-pretty", false, "Human-readable log output")

	rootCmd.AddCommand(newShowCommand(&opts))
	rootCmd.AddCommand(newExportCommand(&opts))
	rootCmd.AddCommand(newServeCommand(&opts))

	return rootCmd
}

// options carries the persistent flags shared by every subcommand.
type options struct {
	configPath string
	codePaths  []string
	logLevel   string
	logPretty  bool
}

// loadConfig merges the config file and environment with command-line
// overrides; flags win.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if len(o.codePaths) > 0 {
		cfg.CodePaths = o.codePaths
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logPretty {
		cfg.LogPretty = true
	}
	return cfg, nil
}

// newProvider wires the documentation provider: the beam store serves both
// as documentation store and behaviour resolver.
func newProvider(cfg *config.Config) *docs.Provider {
	store := beam.NewStore(cfg.CodePaths...)
	return docs.New(store, markup.Renderer{}, store)
}
