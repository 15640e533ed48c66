package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/lifecycle"
	"frameops/internal/session"
)

func newTrainingCommand(ctx *commandContext) *cobra.Command {
	trainingCmd := &cobra.Command{
		Use:   "training",
		Short: "Run and manage embedding training jobs",
	}

	trainingCmd.AddCommand(newTrainingListCommand(ctx))
	trainingCmd.AddCommand(newTrainingRunCommand(ctx))
	trainingCmd.AddCommand(newTrainingStatusCommand(ctx))
	trainingCmd.AddCommand(newTrainingPauseCommand(ctx))
	trainingCmd.AddCommand(newTrainingResumeCommand(ctx))
	trainingCmd.AddCommand(newTrainingRollbackCommand(ctx))
	trainingCmd.AddCommand(newTrainingRollbackStatusCommand(ctx))
	trainingCmd.AddCommand(newTrainingDeleteCommand(ctx))

	return trainingCmd
}

func newTrainingListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List training jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if err := applyListing(a.store, session.KeyTrainingPage, session.KeyTrainingFilter,
					page, status, cmd.Flags().Changed("status")); err != nil {
					return err
				}
				return a.showScreen(cmd, api.ScreenTraining)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page to show")
	cmd.Flags().StringVar(&status, "status", "", "Filter by job status")
	return cmd
}

func newTrainingRunCommand(ctx *commandContext) *cobra.Command {
	var videoID int64
	var all bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start training on the selected frames",
		Long: `Start an embedding run for the focused video (or --video).

By default the locally selected frames are submitted. With --all the backend
trains every frame it has marked selected for the video, regardless of the
local selection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				target := videoID
				if target == 0 {
					target = a.store.FocusedVideo()
				}
				if target == 0 {
					return fmt.Errorf("no video in focus; use --video or `frameops frames focus`")
				}

				var frameIDs []int64
				if !all {
					var err error
					frameIDs, err = a.engine.PrepareTraining(cmd.Context(), target)
					if err != nil {
						return err
					}
				}

				result, err := a.client.ExecuteTraining(cmd.Context(), target, frameIDs)
				if err != nil {
					return err
				}
				a.store.TrackTraining(result.JobID, result.TaskID)
				if all {
					a.store.PruneFrameSelection(func(_, owner int64) bool {
						return owner != target
					})
				} else {
					// Submitted frames move to training on the backend and can
					// no longer be part of the selection.
					a.store.DeselectFrames(frameIDs...)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "training job %d queued with %d frame(s)\n",
					result.JobID, result.TotalFrames)
				fmt.Fprintln(cmd.OutOrStdout(), "run `frameops watch` to follow progress")
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&videoID, "video", 0, "Video to train (defaults to the focused video)")
	cmd.Flags().BoolVar(&all, "all", false, "Train every backend-selected frame of the video")
	return cmd
}

func newTrainingStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the live status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %d: %s, %d/%d frames (%.0f%%), %d failed\n",
					status.JobID, status.Status, status.ProcessedFrames, status.TotalFrames,
					status.ProgressPercent, status.FailedFrames)
				return nil
			})
		},
	}
}

func newTrainingPauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <job-id>",
		Short: "Pause a processing job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if !lifecycle.CanPause(status.Status) {
					return fmt.Errorf("job %d is %s and cannot be paused", jobID, status.Status)
				}
				if err := a.client.PauseTraining(cmd.Context(), jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %d pausing after its current frame\n", jobID)
				return nil
			})
		},
	}
}

func newTrainingResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <job-id>",
		Short: "Resume a paused job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if !lifecycle.CanResume(status.Status) {
					return fmt.Errorf("job %d is %s and cannot be resumed", jobID, status.Status)
				}
				if err := a.client.ResumeTraining(cmd.Context(), jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %d resuming\n", jobID)
				return nil
			})
		},
	}
}

func newTrainingRollbackCommand(ctx *commandContext) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "rollback <job-id>",
		Short: "Unwind a completed or failed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if !lifecycle.CanRollback(status.Status) {
					return fmt.Errorf("job %d is %s; only completed or failed jobs roll back", jobID, status.Status)
				}
				result, err := a.client.RollbackTraining(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Message)
				if !wait {
					return nil
				}

				outcome, err := lifecycle.WaitRollback(cmd.Context(), lifecycle.RollbackWait{Log: a.log},
					func(probeCtx context.Context) (lifecycle.JobStatus, error) {
						probe, err := a.client.TrainingJobStatus(probeCtx, jobID)
						if err != nil {
							return "", err
						}
						return probe.Status, nil
					})
				if err != nil {
					return err
				}
				switch outcome {
				case lifecycle.RollbackConfirmed:
					detail, err := a.client.TrainingRollbackStatus(cmd.Context(), jobID)
					if err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "job %d rolled back\n", jobID)
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "job %d rolled back: %d frame(s) reset to selected\n",
						jobID, detail.FramesResetToSelected)
				case lifecycle.RollbackStillRunning:
					fmt.Fprintf(cmd.OutOrStdout(),
						"job %d is still unwinding; check `frameops training rollback-status %d` later\n", jobID, jobID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the rollback settles")
	return cmd
}

func newTrainingRollbackStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback-status <job-id>",
		Short: "Show how far a rollback has unwound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingRollbackStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "job %d: %s\n", status.JobID, status.JobStatus)
				fmt.Fprintf(out, "  frames still trained:     %d\n", status.FramesStillTrained)
				fmt.Fprintf(out, "  frames reset to selected: %d\n", status.FramesResetToSelected)
				if status.IsRollbackComplete {
					fmt.Fprintf(out, "  completed at %s\n", status.RolledBackAt)
				} else {
					fmt.Fprintln(out, "  rollback still in progress")
				}
				return nil
			})
		},
	}
}

func newTrainingDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a training job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0], "job id")
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.client.TrainingJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if !lifecycle.CanDelete(status.Status) {
					return fmt.Errorf("job %d is processing; pause or wait before deleting", jobID)
				}
				if err := a.client.DeleteTrainingJob(cmd.Context(), jobID); err != nil {
					return err
				}
				a.store.DropTraining(jobID)
				fmt.Fprintf(cmd.OutOrStdout(), "job %d deleted\n", jobID)
				return nil
			})
		},
	}
}
