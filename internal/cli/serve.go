package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API over the configured storage backend.

The server exposes the board under /api: group and link management, the
tile layout, link enrichment, and the preview flag. It shuts down
gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			store, kv, err := c.openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open storage backend %q: %w", cfg.Storage.Backend, err)
			}
			defer kv.Close()

			logger := loggerFromContext(ctx)
			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"backend", cfg.Storage.Backend,
				"groups", store.Len())

			srv := server.New(store, c.newEnricher(cfg), logger)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}
