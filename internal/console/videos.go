package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"frameops/internal/api"
	"frameops/internal/session"
)

// VideosScreen lists the video catalog page recorded in the session.
type VideosScreen struct {
	client   *api.Client
	store    *session.Store
	out      io.Writer
	pageSize int
}

func NewVideosScreen(client *api.Client, store *session.Store, out io.Writer, pageSize int) *VideosScreen {
	return &VideosScreen{client: client, store: store, out: out, pageSize: pageSize}
}

func (s *VideosScreen) Name() string { return api.ScreenVideos }

func (s *VideosScreen) Reload(ctx context.Context) error {
	page, _ := s.store.Get(session.KeyVideosPage).(int)
	filter, _ := s.store.Get(session.KeyVideosFilter).(string)

	list, err := s.client.ListVideos(ctx, api.VideoListParams{
		Page:         page,
		PageSize:     s.pageSize,
		StatusFilter: filter,
	})
	if err != nil {
		return fmt.Errorf("load videos: %w", err)
	}

	rows := make([][]string, 0, len(list.Videos))
	for _, video := range list.Videos {
		rows = append(rows, []string{
			strconv.FormatInt(video.ID, 10),
			video.AssetName,
			video.Category,
			string(video.Status),
			strconv.Itoa(video.TotalFrames),
			strconv.Itoa(video.FPS),
			video.CreatedAt,
		})
	}
	fmt.Fprintln(s.out, renderTable(tableSpec{
		title:        "videos",
		headers:      []string{"id", "asset", "category", "status", "frames", "fps", "created"},
		rows:         rows,
		rightAligned: []int{0, 4, 5},
	}))
	fmt.Fprintln(s.out, pageFooter(list.Page, list.PageSize, list.Total))
	return nil
}

func pageFooter(page, pageSize, total int) string {
	pages := 1
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
		if pages < 1 {
			pages = 1
		}
	}
	return fmt.Sprintf("page %d of %d (%d total)", page, pages, total)
}
