package main

import (
	"github.com/spf13/cobra"

	"frameops/internal/api"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show pipeline-wide counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				return a.showScreen(cmd, api.ScreenDashboard)
			})
		},
	}
}
