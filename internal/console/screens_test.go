package console_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"frameops/internal/api"
	"frameops/internal/console"
	"frameops/internal/selection"
	"frameops/internal/session"
	"frameops/internal/testsupport"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return api.NewWithDoer(server.URL, "session-test", server.Client(), nil)
}

func TestDashboardScreenRendersCounters(t *testing.T) {
	client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"videos": {"total": 4, "uploaded": 1, "extracted": 3},
			"frames": {"total": 120, "selected": 12},
			"training_jobs": {"total": 2, "completed": 2}
		}`))
	}))
	out := &safeBuffer{}
	screen := console.NewDashboardScreen(client, out)

	if err := screen.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	rendered := out.String()
	for _, want := range []string{"Dashboard", "120", "selected 12", "completed 2"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("output missing %q:\n%s", want, rendered)
		}
	}
}

func TestFramesScreenWithoutFocus(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no fetch expected without focus")
	}))
	out := &safeBuffer{}
	screen := console.NewFramesScreen(client, store, selection.NewEngine(store, client, nil), out)

	if err := screen.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !strings.Contains(out.String(), "no video in focus") {
		t.Fatalf("output missing focus hint:\n%s", out.String())
	}
}

func TestFramesScreenMarksAndPrunesSelection(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 3, "page": 1, "page_size": 50,
			"frames": [
				{"id": 1, "frame_number": 10, "status": "selected"},
				{"id": 2, "frame_number": 20, "status": "trained"},
				{"id": 3, "frame_number": 30, "status": "extracted"}
			]
		}`))
	}))
	out := &safeBuffer{}
	engine := selection.NewEngine(store, client, nil)
	screen := console.NewFramesScreen(client, store, engine, out)

	store.FocusVideo(7)
	store.SelectFrames(7, 1, 2)

	if err := screen.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "changed state on the backend") {
		t.Fatalf("output missing prune note:\n%s", rendered)
	}
	if got := store.SelectedFrameIDs(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("selection = %v, want [1]", got)
	}
	if !strings.Contains(rendered, "1 selected") {
		t.Fatalf("footer missing selection count:\n%s", rendered)
	}
}

func TestVideosScreenUsesSessionPage(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	var gotPage string
	client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 51, "page": 2, "page_size": 50,
			"videos": [{"id": 9, "asset_name": "pump-a", "category": "pump", "status": "extracted", "total_frames": 120, "fps": 2}]
		}`))
	}))
	out := &safeBuffer{}
	screen := console.NewVideosScreen(client, store, out, 50)

	if err := store.Set(session.KeyVideosPage, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := screen.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if gotPage != "2" {
		t.Fatalf("page query = %q, want 2", gotPage)
	}
	if !strings.Contains(out.String(), "page 2 of 2 (51 total)") {
		t.Fatalf("footer wrong:\n%s", out.String())
	}
}
