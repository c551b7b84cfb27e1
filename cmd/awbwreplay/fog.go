package main

import (
	"fmt"

	"github.com/awbwapp/replay/internal/fog"
	"github.com/spf13/cobra"
)

func newFogCmd(a *app) *cobra.Command {
	var (
		turn     int
		playerID int
		opts     fog.Options
	)

	cmd := &cobra.Command{
		Use:   "fog <replay.zip>",
		Short: "Print what a player sees at the start of a turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newParser()
			if err != nil {
				return err
			}
			replay, err := p.ParseFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if turn < 0 || turn >= len(replay.Turns) {
				return fmt.Errorf("turn %d out of range, replay has %d turns", turn, len(replay.Turns))
			}

			opts.PlayerID = playerID
			if !cmd.Flags().Changed("player") {
				opts.PlayerID = replay.Turns[turn].ActivePlayerID
			}

			grid, err := fog.Compute(&replay.Info, &replay.Turns[turn], fog.InferBoard(replay), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "turn %d, player %d, %d tiles visible\n", turn, opts.PlayerID, grid.Count())
			fmt.Fprint(cmd.OutOrStdout(), grid.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&turn, "turn", 0, "turn index")
	cmd.Flags().IntVar(&playerID, "player", 0, "player id, defaults to the active player")
	cmd.Flags().IntVar(&opts.RangeIncrease, "range-increase", 0, "extra vision range for every unit")
	cmd.Flags().BoolVar(&opts.CanSeeIntoHiddenTiles, "see-hidden", false, "ignore terrain sight limits")
	return cmd
}
