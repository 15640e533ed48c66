package console

import (
	"context"
	"fmt"
	"io"

	"frameops/internal/api"
	"frameops/internal/session"
)

// QdrantScreen shows the vector collection summary and a page of its points.
type QdrantScreen struct {
	client   *api.Client
	store    *session.Store
	out      io.Writer
	pageSize int
}

func NewQdrantScreen(client *api.Client, store *session.Store, out io.Writer, pageSize int) *QdrantScreen {
	return &QdrantScreen{client: client, store: store, out: out, pageSize: pageSize}
}

func (s *QdrantScreen) Name() string { return api.ScreenQdrant }

func (s *QdrantScreen) Reload(ctx context.Context) error {
	info, err := s.client.QdrantCollection(ctx)
	if err != nil {
		return fmt.Errorf("load collection info: %w", err)
	}
	fmt.Fprintf(s.out, "collection %s: %d points, status %s\n",
		info.CollectionName, info.PointsCount, info.Status)

	page, _ := s.store.Get(session.KeyQdrantPage).(int)
	category, _ := s.store.Get(session.KeyQdrantFilter).(string)
	offset := 0
	if page > 1 {
		offset = (page - 1) * s.pageSize
	}
	points, err := s.client.ListQdrantPoints(ctx, s.pageSize, offset, category)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}

	selected := make(map[string]bool)
	for _, id := range s.store.SelectedPointIDs() {
		selected[id] = true
	}
	rows := make([][]string, 0, len(points.Results))
	for _, point := range points.Results {
		marker := ""
		if selected[point.PointID] {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			point.PointID,
			payloadField(point.Payload, "asset_name"),
			payloadField(point.Payload, "category"),
			payloadField(point.Payload, "frame_id"),
		})
	}
	fmt.Fprintln(s.out, renderTable(tableSpec{
		title:   "vector points",
		headers: []string{"sel", "point", "asset", "category", "frame"},
		rows:    rows,
	}))
	fmt.Fprintln(s.out, pageFooter(page, s.pageSize, points.Total))
	return nil
}

func payloadField(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
