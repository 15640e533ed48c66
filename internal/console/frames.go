package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"frameops/internal/api"
	"frameops/internal/selection"
	"frameops/internal/session"
)

// FramesScreen lists the focused video's frames and marks local selection.
// Every reload runs the fetched page through the selection engine so entries
// the backend moved out of a selectable state drop off immediately.
type FramesScreen struct {
	client *api.Client
	store  *session.Store
	engine *selection.Engine
	out    io.Writer
}

func NewFramesScreen(client *api.Client, store *session.Store, engine *selection.Engine, out io.Writer) *FramesScreen {
	return &FramesScreen{client: client, store: store, engine: engine, out: out}
}

func (s *FramesScreen) Name() string { return api.ScreenFrames }

func (s *FramesScreen) Reload(ctx context.Context) error {
	videoID := s.store.FocusedVideo()
	if videoID == 0 {
		fmt.Fprintln(s.out, "no video in focus; run `frameops frames focus <video-id>` first")
		return nil
	}
	page, _ := s.store.Get(session.KeyFramesPage).(int)
	pageSize, _ := s.store.Get(session.KeyFramesPageSize).(int)
	filter, _ := s.store.Get(session.KeyFramesFilter).(string)

	list, err := s.client.ListVideoFrames(ctx, videoID, page, pageSize, filter)
	if err != nil {
		return fmt.Errorf("load frames for video %d: %w", videoID, err)
	}
	if removed := s.engine.ReconcilePage(list); len(removed) > 0 {
		fmt.Fprintf(s.out, "note: %d selected frame(s) changed state on the backend and were deselected\n", len(removed))
	}

	rows := make([][]string, 0, len(list.Frames))
	for _, frame := range list.Frames {
		marker := ""
		if _, selected := s.store.FrameSelected(frame.ID); selected {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			strconv.FormatInt(frame.ID, 10),
			strconv.Itoa(frame.FrameNumber),
			string(frame.Status),
			frame.ThumbnailURL,
		})
	}
	fmt.Fprintln(s.out, renderTable(tableSpec{
		title:        fmt.Sprintf("frames of video %d", videoID),
		headers:      []string{"sel", "id", "frame", "status", "thumbnail"},
		rows:         rows,
		rightAligned: []int{1, 2},
	}))
	fmt.Fprintf(s.out, "%s, %d selected\n", pageFooter(list.Page, list.PageSize, list.Total), len(s.store.SelectedFrameIDs()))
	return nil
}
