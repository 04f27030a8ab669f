package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/internal/config"
	"github.com/matzehuels/seatplan/pkg/cache"
)

// cacheCommand groups commands that manage the layout read cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
		Long: `Layouts read from the store are cached according to cache.mode:
none, memory (per process), file (the CLI default) or redis.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached layout of the configured cache",
		Long: `Drop every cached layout. For the file cache this empties the cache
directory; for redis it deletes the keys under cache.prefix (a prefix is
required so unrelated keys are never touched).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.Mode == config.CacheNone || cfg.Cache.Mode == config.CacheMemory {
				printInfo("Nothing to clear: cache.mode is %s", cfg.Cache.Mode)
				return nil
			}

			cc, err := c.newCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			cl, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Nothing to clear")
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear %s cache: %w", cfg.Cache.Mode, err)
			}

			printSuccess("Cleared the %s cache", cfg.Cache.Mode)
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			} else if cfg.Cache.Prefix != "" {
				printDetail("Prefix: %s", cfg.Cache.Prefix)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
