// Package cli implements the seatplan command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/internal/config"
	"github.com/matzehuels/seatplan/pkg/buildinfo"
	"github.com/matzehuels/seatplan/pkg/cache"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/store/memory"
	"github.com/matzehuels/seatplan/pkg/store/mongo"
	"github.com/matzehuels/seatplan/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "seatplan"

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

	configPath string
	userFlag   string
	logFormat  string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Seatplan designs venue layouts and seats wedding guests",
		Long:         `Seatplan manages venue floor plans (tables, chairs and the room outline) and assigns wedding guests to seats, from the command line, a terminal editor or an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogFormat(c.Logger, c.logFormat); err != nil {
				return err
			}
			installHooks(c.Logger)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./seatplan.toml)")
	root.PersistentFlags().StringVarP(&c.userFlag, "user", "u", "", "acting user id (default: config user or $USER)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "log output format: text, logfmt or json")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.seatsCommand())
	root.AddCommand(c.weddingCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tokenCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// user resolves the acting user: --user, then the configured user.
func (c *CLI) user() (string, error) {
	if c.userFlag != "" {
		return c.userFlag, nil
	}
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	if cfg.User == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "no user set; pass --user or set SEATPLAN_USER")
	}
	return cfg.User, nil
}

// =============================================================================
// Planner Factory
// =============================================================================

// withPlanner opens the configured store, runs fn and closes the store.
func (c *CLI) withPlanner(ctx context.Context, fn func(*planner.Service) error) error {
	svc, err := c.newPlanner(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Store().Close(); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()
	return fn(svc)
}

func (c *CLI) newPlanner(ctx context.Context) (*planner.Service, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	g, err := c.openGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []planner.Option{planner.WithLogger(c.Logger)}
	if cfg.Editor.GuestsFile != "" {
		opts = append(opts, planner.WithGuests(guest.FileDirectory{Path: cfg.Editor.GuestsFile}))
	}
	return planner.New(g, opts...), nil
}

// openGateway connects the configured backend, instruments it and puts the
// layout cache in front.
func (c *CLI) openGateway(ctx context.Context, cfg *config.Config) (store.Gateway, error) {
	var (
		g   store.Gateway
		err error
	)
	switch cfg.Store.Backend {
	case config.BackendMemory:
		g = memory.New()
	case config.BackendSQLite:
		c.Logger.Debug("opening sqlite store", "path", cfg.Store.SQLitePath)
		g, err = sqlite.Open(cfg.Store.SQLitePath)
	case config.BackendMongo:
		c.Logger.Debug("connecting to mongo", "db", cfg.Store.MongoDB)
		spin := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		spin.Start()
		g, err = mongo.Connect(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB)
		spin.Stop()
	default:
		return nil, errors.Validation("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	g = store.Instrument(g, cfg.Store.Backend)

	cc, err := c.newCache(ctx, cfg)
	if err != nil {
		_ = g.Close()
		return nil, err
	}
	if _, ok := cc.(cache.NullCache); ok {
		return g, nil
	}
	return store.NewCached(g, cc, cacheKeyer(cfg), c.Logger), nil
}

// cacheKeyer scopes cache keys by cache.prefix. The redis cache prefixes
// keys itself so that `cache clear` can find them, so it gets unscoped keys.
func cacheKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Cache.Prefix == "" || cfg.Cache.Mode == config.CacheRedis {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
}

// newCache builds the layout cache for the configured mode. A file cache
// whose directory cannot be resolved degrades to no cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Mode {
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheFile:
		dir, err := cacheDir(cfg)
		if err != nil {
			c.Logger.Debug("cache dir unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
	default:
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the
// per-user cache dir (~/.cache/seatplan on Linux).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
