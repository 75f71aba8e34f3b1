package cli

import (
	"github.com/spf13/cobra"

	"github.com/smaximov/elixir-sense/internal/logging"
	"github.com/smaximov/elixir-sense/internal/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve module documentation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			logger := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
			srv := server.New(newProvider(cfg), logger)
			return srv.ListenAndServe(cfg.Listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to bind (overrides config)")
	return cmd
}
