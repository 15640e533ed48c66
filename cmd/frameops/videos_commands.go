package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/session"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Browse and manage uploaded videos",
	}

	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosShowCommand(ctx))
	videosCmd.AddCommand(newVideosUploadCommand(ctx))
	videosCmd.AddCommand(newVideosUpdateCommand(ctx))
	videosCmd.AddCommand(newVideosExtractCommand(ctx))
	videosCmd.AddCommand(newVideosDeleteCommand(ctx))

	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if err := applyListing(a.store, session.KeyVideosPage, session.KeyVideosFilter,
					page, status, cmd.Flags().Changed("status")); err != nil {
					return err
				}
				return a.showScreen(cmd, api.ScreenVideos)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page to show")
	cmd.Flags().StringVar(&status, "status", "", "Filter by video status")
	return cmd
}

func newVideosShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show one video with its frame counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0], "video id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				video, err := a.client.GetVideo(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "video %d: %s (%s)\n", video.ID, video.AssetName, video.Category)
				fmt.Fprintf(out, "  file:     %s\n", video.Filename)
				fmt.Fprintf(out, "  status:   %s\n", video.Status)
				fmt.Fprintf(out, "  fps:      %d\n", video.FPS)
				fmt.Fprintf(out, "  frames:   %d total, %d extracted, %d selected, %d trained, %d deleted\n",
					video.TotalFrames, video.FramesExtracted, video.FramesSelected,
					video.FramesTrained, video.FramesDeleted)
				fmt.Fprintf(out, "  training: %d job(s)\n", video.TrainingJobsCount)
				fmt.Fprintf(out, "  created:  %s\n", video.CreatedAt)
				return nil
			})
		},
	}
}

func newVideosUploadCommand(ctx *commandContext) *cobra.Command {
	var meta api.UploadMetadata

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video file with its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				result, err := a.client.UploadVideo(cmd.Context(), args[0], meta)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "video %d registered (%s)\n", result.VideoID, result.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&meta.AssetName, "asset", "", "Asset name (required)")
	cmd.Flags().StringVar(&meta.Category, "category", "", "Asset category (required)")
	cmd.Flags().StringVar(&meta.ModelNumber, "model", "", "Model number")
	cmd.Flags().StringVar(&meta.Manufacturer, "manufacturer", "", "Manufacturer")
	cmd.Flags().IntVar(&meta.FPS, "fps", 1, "Extraction rate in frames per second (1-10)")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("category")
	return cmd
}

func newVideosUpdateCommand(ctx *commandContext) *cobra.Command {
	var asset, category, model, manufacturer string

	cmd := &cobra.Command{
		Use:   "update <video-id>",
		Short: "Change a video's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0], "video id")
			if err != nil {
				return err
			}
			var update api.VideoUpdate
			if cmd.Flags().Changed("asset") {
				update.AssetName = &asset
			}
			if cmd.Flags().Changed("category") {
				update.Category = &category
			}
			if cmd.Flags().Changed("model") {
				update.ModelNumber = &model
			}
			if cmd.Flags().Changed("manufacturer") {
				update.Manufacturer = &manufacturer
			}
			if update == (api.VideoUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one metadata flag")
			}
			return ctx.withApp(cmd, func(a *app) error {
				detail, err := a.client.UpdateVideo(cmd.Context(), videoID, update)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "video %d updated: %s (%s)\n",
					detail.ID, detail.AssetName, detail.Category)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "New asset name")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&model, "model", "", "New model number")
	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "New manufacturer")
	return cmd
}

func newVideosExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <video-id>",
		Short: "Queue frame extraction for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0], "video id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				if taskID, pending := a.store.ExtractionTask(videoID); pending {
					return fmt.Errorf("extraction already running for video %d (task %s)", videoID, taskID)
				}
				trigger, err := a.client.ExtractFrames(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				a.store.TrackExtraction(videoID, trigger.TaskID)
				fmt.Fprintf(cmd.OutOrStdout(), "extraction queued for video %d (task %s)\n", videoID, trigger.TaskID)
				fmt.Fprintln(cmd.OutOrStdout(), "run `frameops watch` to follow progress")
				return nil
			})
		},
	}
}

func newVideosDeleteCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <video-id>",
		Short: "Delete a video and everything derived from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0], "video id")
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("deleting video %d removes its frames, thumbnails and vector points; re-run with --force", videoID)
			}
			return ctx.withApp(cmd, func(a *app) error {
				result, err := a.client.DeleteVideo(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				if a.store.FocusedVideo() == videoID {
					// Focus is gone with the video; dropping it also clears
					// any frames still selected from it.
					a.store.FocusVideo(0)
				}
				a.store.DropExtraction(videoID)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d frames, %d files, %d points)\n",
					result.Message, result.FramesDeleted, result.S3FilesDeleted, result.QdrantPointsDeleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation guard")
	return cmd
}
