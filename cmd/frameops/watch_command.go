package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/console"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var screen string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live progress events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if err := a.showScreen(cmd, screen); err != nil {
					return err
				}

				channel := a.newChannel()
				watcher := console.NewWatcher(channel, a.store, a.registry, a.out, a.log)
				watcher.Bind()

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return watcher.Run(runCtx)
			})
		},
	}

	cmd.Flags().StringVar(&screen, "screen", api.ScreenDashboard, "Screen to keep refreshed while watching")
	return cmd
}
