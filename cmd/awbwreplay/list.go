package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/awbwapp/replay/internal/config"
	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/internal/storage"
	"github.com/spf13/cobra"
)

// replayLister is implemented by the database backends.
type replayLister interface {
	ListReplays(ctx context.Context) ([]model.Replay, error)
}

func newListCmd(a *app) *cobra.Command {
	var storageType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List replays saved in a database backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storageCfg := config.GetStorageConfig()
			if storageType != "" {
				storageCfg.Type = storageType
			}

			backend, err := storage.NewBackend(storageCfg, storage.Options{
				Database: config.GetDatabaseConfig(),
				Logger:   a.zlog,
			})
			if err != nil {
				return err
			}
			lister, ok := backend.(replayLister)
			if !ok {
				return fmt.Errorf("storage type %s cannot list replays", storageCfg.Type)
			}
			if err := backend.Init(); err != nil {
				return fmt.Errorf("error initializing %s storage: %w", storageCfg.Type, err)
			}
			defer backend.Close()

			replays, err := lister.ListReplays(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMAP\tTYPE\tTURNS\tACTIONS")
			for _, r := range replays {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%d\n",
					r.ID, r.Name, r.MapID, r.MatchType, r.TurnCount, r.ActionCount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&storageType, "storage", "", "override storage.type (sqlite, postgres)")
	return cmd
}
