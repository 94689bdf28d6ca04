// Package cli implements the tilemarks command-line interface.
//
// This package provides commands for managing bookmark groups, attaching and
// enriching links, rendering the tile layout, and running the HTTP API. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP API over the configured storage backend
//   - groups: Create, list, remove, and resize bookmark groups
//   - links: Attach and detach links on a group
//   - layout: Render the board's tile layout in the terminal
//   - enrich: Resolve favicon and page metadata for a URL
//   - import: Build groups from a bookmarks JSON export
//   - assign: Interactively drag bookmarks onto groups
//   - data: Manage the local data directory
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/internal/config"
	"github.com/tilemarks/tilemarks/pkg/buildinfo"
	"github.com/tilemarks/tilemarks/pkg/enrich"
	"github.com/tilemarks/tilemarks/pkg/groups"
	"github.com/tilemarks/tilemarks/pkg/kvstore"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tilemarks"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tilemarks arranges bookmark groups as proportional tiles",
		Long:         `Tilemarks is a bookmark-group engine: it keeps named groups of quick links, enriches them with favicons and page metadata, and lays them out as proportionally sized tiles on a canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/tilemarks/config.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.enrichCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.assignCommand())
	root.AddCommand(c.dataCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// loadConfig reads the configuration file once per command invocation.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// openStore builds the configured persistence backend and loads the board
// state from it. The caller must Close the returned kvstore.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (*groups.Store, kvstore.Store, error) {
	kv, err := c.openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := groups.NewStore(kv, groups.WithLogger(c.Logger))
	if err := store.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, nil, fmt.Errorf("load board state: %w", err)
	}
	return store, kv, nil
}

// openBackend constructs the kvstore named by the config.
func (c *CLI) openBackend(ctx context.Context, cfg config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return kvstore.NewMemoryStore(), nil
	case "redis":
		return kvstore.NewRedisStore(ctx, kvstore.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
	case "mongo":
		return kvstore.NewMongoStore(ctx, kvstore.MongoConfig{
			URI:        cfg.Storage.Mongo.URI,
			Database:   cfg.Storage.Mongo.Database,
			Collection: cfg.Storage.Mongo.Collection,
		})
	default:
		return kvstore.NewFileStore(cfg.DataDir())
	}
}

// newEnricher builds the enrichment client from the config.
func (c *CLI) newEnricher(cfg config.Config) *enrich.Client {
	return enrich.NewClient(enrich.Config{
		FaviconService: cfg.Enrich.FaviconService,
		MetaEndpoint:   cfg.Enrich.MetaEndpoint,
		Timeout:        cfg.EnrichTimeout(),
		Logger:         c.Logger,
	})
}
