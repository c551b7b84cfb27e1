package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/awbwapp/replay/internal/storage/memory"
	"github.com/awbwapp/replay/pkg/core"
	"github.com/spf13/cobra"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		outPath  string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "decode <replay.zip>",
		Short: "Decode a replay archive and print a summary or its JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newParser()
			if err != nil {
				return err
			}

			start := time.Now()
			replay, err := p.ParseFile(cmd.Context(), args[0])
			if err != nil {
				a.logger.Error("Failed to decode replay", "file", args[0], "error", err)
				return err
			}
			a.logger.Info("Decoded replay",
				"file", args[0],
				"replayId", replay.Info.ID,
				"turns", len(replay.Turns),
				"took", time.Since(start))

			if !asJSON && outPath == "" {
				printSummary(cmd.OutOrStdout(), replay)
				return nil
			}

			export := memory.BuildExport(replay)
			if outPath == "" {
				return memory.WriteExport(cmd.OutOrStdout(), export, compress)
			}
			return writeExportFile(outPath, export, compress)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the JSON export instead of a summary")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the export to a file")
	cmd.Flags().BoolVar(&compress, "compress", false, "gzip the export")
	return cmd
}

func writeExportFile(path string, export memory.ReplayExport, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := memory.WriteExport(bw, export, compress); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("error writing output file: %w", err)
	}
	return f.Close()
}

func printSummary(w io.Writer, r *core.ReplayData) {
	info := r.Info
	fmt.Fprintf(w, "Replay %d: %s\n", info.ID, info.Name)
	fmt.Fprintf(w, "  Map:     %d\n", info.MapID)
	fmt.Fprintf(w, "  Type:    %s\n", info.Type)
	fmt.Fprintf(w, "  Fog:     %t\n", info.Fog)
	fmt.Fprintf(w, "  Turns:   %d\n", len(r.Turns))
	fmt.Fprintf(w, "  Actions: %d\n", countActions(r))
	fmt.Fprintf(w, "  Players:\n")
	for idx, p := range info.Players {
		fmt.Fprintf(w, "    [%d] id=%d user=%d team=%s co=%d country=%d\n",
			idx, p.ID, p.UserID, p.TeamName, p.COID, p.CountryID)
	}
}

func countActions(r *core.ReplayData) int {
	n := 0
	for _, t := range r.Turns {
		n += len(t.Actions)
	}
	return n
}
