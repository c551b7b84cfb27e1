package main

import (
	"fmt"
	"strconv"

	"github.com/awbwapp/replay/internal/api"
	"github.com/awbwapp/replay/internal/config"
	"github.com/spf13/cobra"
)

func newUsernameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "username <user-id>",
		Short: "Look up the display name of an AWBW account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			apiCfg := config.GetAPIConfig()
			name, err := api.New(apiCfg.BaseURL, apiCfg.Timeout).Username(cmd.Context(), userID)
			if err != nil {
				a.logger.Error("Username lookup failed", "userId", userID, "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
