package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/awbwapp/replay/internal/api"
	"github.com/awbwapp/replay/internal/cache"
	"github.com/awbwapp/replay/internal/config"
	"github.com/awbwapp/replay/internal/influx"
	"github.com/awbwapp/replay/internal/logging"
	"github.com/awbwapp/replay/internal/storage"
	gormstorage "github.com/awbwapp/replay/internal/storage/gorm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newStoreCmd(a *app) *cobra.Command {
	var (
		storageType string
		keepGoing   bool
	)

	cmd := &cobra.Command{
		Use:   "store <replay.zip>...",
		Short: "Decode replay archives and save them to the configured storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storageCfg := config.GetStorageConfig()
			if storageType != "" {
				storageCfg.Type = storageType
			}
			return a.store(cmd.Context(), cmd.OutOrStdout(), storageCfg, args, keepGoing)
		},
	}

	cmd.Flags().StringVar(&storageType, "storage", "", "override storage.type (memory, sqlite, postgres)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with the remaining files when one fails")
	return cmd
}

// usernameLookup resolves user ids through the site, memoized per process.
func usernameLookup() gormstorage.UsernameFunc {
	apiCfg := config.GetAPIConfig()
	if !apiCfg.LookupUsernames {
		return nil
	}
	client := api.New(apiCfg.BaseURL, apiCfg.Timeout)
	names := cache.NewUsernameCache()
	return func(ctx context.Context, userID int) (string, error) {
		return names.Lookup(ctx, userID, client.Username)
	}
}

func (a *app) store(ctx context.Context, out io.Writer, storageCfg config.StorageConfig, files []string, keepGoing bool) error {
	backend, err := storage.NewBackend(storageCfg, storage.Options{
		Database:  config.GetDatabaseConfig(),
		Logger:    a.zlog,
		Usernames: usernameLookup(),
	})
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("error initializing %s storage: %w", storageCfg.Type, err)
	}
	defer backend.Close()

	metrics := influx.NewManager(a.zlog, config.GetInfluxConfig())
	if err := metrics.Connect(ctx); err != nil {
		a.logger.Warn("Decode metrics disabled", "error", err)
	}
	defer metrics.Close()

	p, err := a.newParser()
	if err != nil {
		return err
	}

	var stored, failed atomic.Int64
	logger := a.logs.WithContext(func() []slog.Attr {
		return []slog.Attr{
			slog.String("storage", storageCfg.Type),
			slog.Int64("stored", stored.Load()),
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.GetDecodeConfig().Workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			fctx := logging.ContextWithAttrs(gctx, slog.String("file", file))
			start := time.Now()
			replay, err := p.ParseFile(fctx, file)
			if err == nil {
				err = backend.SaveReplay(fctx, replay)
			}
			if err != nil {
				failed.Add(1)
				logger.ErrorContext(fctx, "Failed to store replay", "error", err)
				if keepGoing {
					return nil
				}
				return fmt.Errorf("%s: %w", file, err)
			}

			took := time.Since(start)
			stored.Add(1)
			if err := metrics.WritePoint(influx.DecodePoint(replay, took, start)); err != nil {
				logger.WarnContext(fctx, "Failed to write decode metric", "error", err)
			}
			logger.InfoContext(fctx, "Stored replay", "replayId", replay.Info.ID, "took", took)
			return nil
		})
	}

	err = g.Wait()
	fmt.Fprintf(out, "stored %d of %d replays\n", stored.Load(), len(files))
	if err == nil && failed.Load() > 0 {
		a.logger.Warn("Some replays were skipped", "failed", failed.Load())
	}
	return err
}
