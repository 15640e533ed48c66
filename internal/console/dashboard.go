package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"frameops/internal/api"
)

// DashboardScreen shows the aggregate pipeline counters.
type DashboardScreen struct {
	client *api.Client
	out    io.Writer
}

func NewDashboardScreen(client *api.Client, out io.Writer) *DashboardScreen {
	return &DashboardScreen{client: client, out: out}
}

func (s *DashboardScreen) Name() string { return api.ScreenDashboard }

func (s *DashboardScreen) Reload(ctx context.Context) error {
	stats, err := s.client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}

	rows := [][]string{
		{"videos", strconv.Itoa(stats.Videos.Total),
			fmt.Sprintf("uploaded %d, extracting %d, extracted %d, failed %d",
				stats.Videos.Uploaded, stats.Videos.Extracting, stats.Videos.Extracted, stats.Videos.Failed)},
		{"frames", strconv.Itoa(stats.Frames.Total),
			fmt.Sprintf("extracted %d, selected %d, trained %d, deleted %d",
				stats.Frames.Extracted, stats.Frames.Selected, stats.Frames.Trained, stats.Frames.Deleted)},
		{"training jobs", strconv.Itoa(stats.TrainingJobs.Total),
			fmt.Sprintf("processing %d, completed %d, failed %d",
				stats.TrainingJobs.Processing, stats.TrainingJobs.Completed, stats.TrainingJobs.Failed)},
	}
	fmt.Fprintln(s.out, renderTable(tableSpec{
		title:        "dashboard",
		headers:      []string{"resource", "total", "by status"},
		rows:         rows,
		rightAligned: []int{1},
	}))
	return nil
}
