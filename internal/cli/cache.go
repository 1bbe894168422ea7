package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the assembly result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// localCacheDir returns the file cache directory from the config or the
// XDG default.
func (c *CLI) localCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached assemblies in the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if expired {
				return c.runCachePurge(cmd.Context())
			}
			if c.Config.Cache.Backend == "sqlite" {
				return c.runSQLiteClear(cmd.Context())
			}
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			return runCacheClear(dir)
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries (file and sqlite backends)")
	return cmd
}

func runCacheClear(dir string) error {
	count, err := countEntries(dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	if count == 0 {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}

// purger is implemented by backends that expire entries lazily.
type purger interface {
	Purge(ctx context.Context) (int64, error)
}

func (c *CLI) runCachePurge(ctx context.Context) error {
	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer ch.Close()
	p, ok := ch.(purger)
	if !ok {
		return errors.New("the " + c.Config.Cache.Backend + " backend expires entries itself")
	}
	n, err := p.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	printSuccess("Removed %d expired entries", n)
	return nil
}

func (c *CLI) runSQLiteClear(ctx context.Context) error {
	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer ch.Close()
	sc, ok := ch.(*cache.SQLiteCache)
	if !ok {
		return fmt.Errorf("cache backend is %T, not sqlite", ch)
	}
	n, err := sc.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	return nil
}

// countEntries counts the regular files below dir. A missing dir has none.
func countEntries(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand, which shows the
// configured backend and checks that it is reachable.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend and check it is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheInfo(cmd.Context())
		},
	}
}

func (c *CLI) runCacheInfo(ctx context.Context) error {
	cfg := c.Config.Cache
	printKeyValue("backend", cfg.Backend)
	switch cfg.Backend {
	case "file":
		dir, err := c.localCacheDir()
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		printKeyValue("directory", dir)
	case "sqlite":
		path := cfg.SQLitePath
		if d, err := cacheDir(); path == "" && err == nil {
			path = filepath.Join(d, "cache.db")
		}
		printKeyValue("database", path)
	case "redis":
		printKeyValue("address", cfg.RedisAddr)
		printKeyValue("database", fmt.Sprint(cfg.RedisDB))
	case "mongo":
		printKeyValue("uri", cfg.MongoURI)
		printKeyValue("collection", cfg.MongoDatabase+"."+cfg.MongoCollection)
	}
	printKeyValue("ttl", cfg.TTL.String())

	ch, err := c.newCache(ctx, false)
	if err != nil {
		printWarning("Cache unreachable: %v", err)
		return err
	}
	defer ch.Close()
	printSuccess("Cache is reachable")
	return nil
}
