package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				report, err := a.client.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "backend: %s\n", report.Status)

				names := make([]string, 0, len(report.Services))
				for name := range report.Services {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					service := report.Services[name]
					fmt.Fprintf(out, "  %-12s %s (%d ms)\n", name+":", service.Status, service.LatencyMS)
				}
				return nil
			})
		},
	}
}
