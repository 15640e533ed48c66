package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/session"
)

func newQdrantCommand(ctx *commandContext) *cobra.Command {
	qdrantCmd := &cobra.Command{
		Use:   "qdrant",
		Short: "Inspect and search the vector collection",
	}

	qdrantCmd.AddCommand(newQdrantInfoCommand(ctx))
	qdrantCmd.AddCommand(newQdrantListCommand(ctx))
	qdrantCmd.AddCommand(newQdrantSearchCommand(ctx))
	qdrantCmd.AddCommand(newQdrantShowCommand(ctx))
	qdrantCmd.AddCommand(newQdrantSelectCommand(ctx))
	qdrantCmd.AddCommand(newQdrantDeselectCommand(ctx))
	qdrantCmd.AddCommand(newQdrantDeleteCommand(ctx))

	return qdrantCmd
}

func newQdrantInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the collection summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				info, err := a.client.QdrantCollection(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "collection %s: %d points, %d vectors, status %s\n",
					info.CollectionName, info.PointsCount, info.VectorsCount, info.Status)
				return nil
			})
		},
	}
}

func newQdrantListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored vector points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if err := applyListing(a.store, session.KeyQdrantPage, session.KeyQdrantFilter,
					page, category, cmd.Flags().Changed("category")); err != nil {
					return err
				}
				return a.showScreen(cmd, api.ScreenQdrant)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page to show")
	cmd.Flags().StringVar(&category, "category", "", "Filter by payload category")
	return cmd
}

func newQdrantSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var threshold float64
	var category string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				result, err := a.client.SearchQdrant(cmd.Context(), api.QdrantSearchRequest{
					QueryText:      args[0],
					Limit:          limit,
					ScoreThreshold: threshold,
					FilterCategory: category,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(result.Results) == 0 {
					fmt.Fprintln(out, "no matches")
					return nil
				}
				for _, point := range result.Results {
					fmt.Fprintf(out, "%.3f  %s  %v\n", point.Score, point.PointID, point.Payload)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum matches to return")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum similarity score")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to one payload category")
	return cmd
}

func newQdrantShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <point-id>",
		Short: "Show one vector point with its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				point, err := a.client.GetQdrantPoint(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "point %s\n", point.PointID)
				for key, value := range point.Payload {
					fmt.Fprintf(out, "  %s: %v\n", key, value)
				}
				return nil
			})
		},
	}
}

func newQdrantSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <point-id>...",
		Short: "Stage vector points for deletion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				a.store.SelectPoints(args...)
				fmt.Fprintf(cmd.OutOrStdout(), "%d point(s) staged\n", len(a.store.SelectedPointIDs()))
				return nil
			})
		},
	}
}

func newQdrantDeselectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deselect <point-id>...",
		Short: "Unstage vector points",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				a.store.DeselectPoints(args...)
				fmt.Fprintf(cmd.OutOrStdout(), "%d point(s) staged\n", len(a.store.SelectedPointIDs()))
				return nil
			})
		},
	}
}

func newQdrantDeleteCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [point-id]...",
		Short: "Delete vector points (staged ones when no ids are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				pointIDs := args
				staged := false
				if len(pointIDs) == 0 {
					pointIDs = a.store.SelectedPointIDs()
					staged = true
				}
				if len(pointIDs) == 0 {
					return fmt.Errorf("no points given and none staged")
				}
				if !force {
					return fmt.Errorf("deleting %d point(s) cannot be undone; re-run with --force", len(pointIDs))
				}
				result, err := a.client.DeleteQdrantPoints(cmd.Context(), pointIDs)
				if err != nil {
					return err
				}
				if staged {
					a.store.ClearPointSelection()
				} else {
					a.store.DeselectPoints(pointIDs...)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d point(s)\n", result.DeletedCount)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation guard")
	return cmd
}
