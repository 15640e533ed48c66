package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"frameops/internal/api"
	"frameops/internal/session"
)

// TrainingScreen lists training jobs with their live progress.
type TrainingScreen struct {
	client   *api.Client
	store    *session.Store
	out      io.Writer
	pageSize int
}

func NewTrainingScreen(client *api.Client, store *session.Store, out io.Writer, pageSize int) *TrainingScreen {
	return &TrainingScreen{client: client, store: store, out: out, pageSize: pageSize}
}

func (s *TrainingScreen) Name() string { return api.ScreenTraining }

func (s *TrainingScreen) Reload(ctx context.Context) error {
	page, _ := s.store.Get(session.KeyTrainingPage).(int)
	filter, _ := s.store.Get(session.KeyTrainingFilter).(string)

	list, err := s.client.ListTrainingJobs(ctx, api.TrainingListParams{
		Page:         page,
		PageSize:     s.pageSize,
		StatusFilter: filter,
	})
	if err != nil {
		return fmt.Errorf("load training jobs: %w", err)
	}

	rows := make([][]string, 0, len(list.Jobs))
	for _, job := range list.Jobs {
		progress := fmt.Sprintf("%d/%d (%.0f%%)", job.ProcessedFrames, job.TotalFrames, job.ProgressPercent)
		rows = append(rows, []string{
			strconv.FormatInt(job.ID, 10),
			job.VideoName,
			string(job.Status),
			progress,
			strconv.Itoa(job.FailedFrames),
			job.StartedAt,
			job.CompletedAt,
		})
	}
	fmt.Fprintln(s.out, renderTable(tableSpec{
		title:        "training jobs",
		headers:      []string{"id", "video", "status", "progress", "failed", "started", "completed"},
		rows:         rows,
		rightAligned: []int{0, 4},
	}))
	fmt.Fprintln(s.out, pageFooter(list.Page, list.PageSize, list.Total))
	return nil
}
