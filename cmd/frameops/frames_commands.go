package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/session"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "Browse and select frames of the focused video",
	}

	framesCmd.AddCommand(newFramesFocusCommand(ctx))
	framesCmd.AddCommand(newFramesListCommand(ctx))
	framesCmd.AddCommand(newFramesSelectCommand(ctx))
	framesCmd.AddCommand(newFramesDeselectCommand(ctx))
	framesCmd.AddCommand(newFramesClearCommand(ctx))
	framesCmd.AddCommand(newFramesDeleteCommand(ctx))

	return framesCmd
}

func newFramesFocusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "focus <video-id>",
		Short: "Switch the frames screen to another video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0], "video id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				removed := a.store.FocusVideo(videoID)
				if len(removed) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "dropped %d selected frame(s) of the previous video\n", len(removed))
				}
				if err := a.store.Set(session.KeyFramesPage, 1); err != nil {
					return err
				}
				return a.showScreen(cmd, api.ScreenFrames)
			})
		},
	}
}

func newFramesListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var pageSize int
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List frames of the focused video",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if err := applyListing(a.store, session.KeyFramesPage, session.KeyFramesFilter,
					page, status, cmd.Flags().Changed("status")); err != nil {
					return err
				}
				if pageSize > 0 {
					if err := a.store.Set(session.KeyFramesPageSize, pageSize); err != nil {
						return err
					}
				}
				return a.showScreen(cmd, api.ScreenFrames)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Frames per page")
	cmd.Flags().StringVar(&status, "status", "", "Filter by frame status")
	return cmd
}

func newFramesSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <frame-id>...",
		Short: "Select frames from the current page for training",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frameIDs, err := parseIDs(args, "frame id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				videoID := a.store.FocusedVideo()
				if videoID == 0 {
					return fmt.Errorf("no video in focus; run `frameops frames focus <video-id>` first")
				}
				page, _ := a.store.Get(session.KeyFramesPage).(int)
				pageSize, _ := a.store.Get(session.KeyFramesPageSize).(int)
				filter, _ := a.store.Get(session.KeyFramesFilter).(string)
				list, err := a.client.ListVideoFrames(cmd.Context(), videoID, page, pageSize, filter)
				if err != nil {
					return err
				}

				onPage := make(map[int64]api.Frame, len(list.Frames))
				for _, frame := range list.Frames {
					onPage[frame.ID] = frame
				}
				frames := make([]api.Frame, 0, len(frameIDs))
				for _, id := range frameIDs {
					frame, ok := onPage[id]
					if !ok {
						return fmt.Errorf("frame %d is not on the current page", id)
					}
					frames = append(frames, frame)
				}

				accepted, err := a.engine.Select(videoID, frames...)
				if err != nil {
					return err
				}
				if len(accepted) == 0 {
					return fmt.Errorf("none of the given frames can be selected")
				}
				if _, err := a.client.UpdateSelection(cmd.Context(), accepted, api.SelectionSelect); err != nil {
					// The backend never saw the selection; undo it locally too.
					a.engine.Deselect(accepted...)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "selected %d frame(s), %d total\n",
					len(accepted), len(a.store.SelectedFrameIDs()))
				return nil
			})
		},
	}
}

func newFramesDeselectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deselect <frame-id>...",
		Short: "Remove frames from the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frameIDs, err := parseIDs(args, "frame id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				if _, err := a.client.UpdateSelection(cmd.Context(), frameIDs, api.SelectionDeselect); err != nil {
					return err
				}
				a.engine.Deselect(frameIDs...)
				fmt.Fprintf(cmd.OutOrStdout(), "deselected %d frame(s), %d remaining\n",
					len(frameIDs), len(a.store.SelectedFrameIDs()))
				return nil
			})
		},
	}
}

func newFramesClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Deselect every selected frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				frameIDs := a.store.SelectedFrameIDs()
				if len(frameIDs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing selected")
					return nil
				}
				if _, err := a.client.UpdateSelection(cmd.Context(), frameIDs, api.SelectionDeselect); err != nil {
					return err
				}
				cleared := a.store.ClearFrameSelection()
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d frame(s)\n", cleared)
				return nil
			})
		},
	}
}

func newFramesDeleteCommand(ctx *commandContext) *cobra.Command {
	var permanent bool

	cmd := &cobra.Command{
		Use:   "delete <frame-id>...",
		Short: "Delete one frame or a batch of frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frameIDs, err := parseIDs(args, "frame id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				if len(frameIDs) == 1 {
					result, err := a.client.DeleteFrame(cmd.Context(), frameIDs[0], permanent)
					if err != nil {
						return err
					}
					a.store.DeselectFrames(frameIDs[0])
					fmt.Fprintln(cmd.OutOrStdout(), result.Message)
					return nil
				}
				result, err := a.client.DeleteFrames(cmd.Context(), frameIDs, permanent)
				if err != nil {
					return err
				}
				a.store.DeselectFrames(frameIDs...)
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d frame(s), %d failed\n",
					result.DeletedCount, result.FailedCount)
				if permanent {
					fmt.Fprintf(cmd.OutOrStdout(), "purged %d vector point(s) and %d stored file(s)\n",
						result.QdrantDeleted, result.S3Deleted)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&permanent, "permanent", false, "Also purge thumbnails and vector points")
	return cmd
}
