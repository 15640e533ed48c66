package session_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"frameops/internal/config"
	"frameops/internal/logging"
	"frameops/internal/session"
	"frameops/internal/testsupport"
)

func TestOpenStartsFromDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if got := store.Get(session.KeyFramesPage); got != 1 {
		t.Fatalf("expected default frames page 1, got %v", got)
	}
	if got := store.Get(session.KeyFramesPageSize); got != 50 {
		t.Fatalf("expected default page size 50, got %v", got)
	}
	if ids := store.SelectedFrameIDs(); len(ids) != 0 {
		t.Fatalf("expected empty selection, got %v", ids)
	}
}

func TestUpdateBatchesNotifications(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	var pageValues []any
	var filterValues []any
	store.On(session.KeyFramesPage, func(value any) { pageValues = append(pageValues, value) })
	store.On(session.KeyFramesFilter, func(value any) { filterValues = append(filterValues, value) })

	err := store.Update(map[session.Key]any{
		session.KeyFramesPage:   3,
		session.KeyFramesFilter: "selected",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(pageValues) != 1 || pageValues[0] != 3 {
		t.Fatalf("expected one page notification with value 3, got %v", pageValues)
	}
	if len(filterValues) != 1 || filterValues[0] != "selected" {
		t.Fatalf("expected one filter notification, got %v", filterValues)
	}
}

func TestUpdateRejectsWholeBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	notified := 0
	store.On(session.KeyFramesPage, func(any) { notified++ })

	err := store.Update(map[session.Key]any{
		session.KeyFramesPage:   5,
		session.KeyFramesFilter: 42,
	})
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
	if got := store.Get(session.KeyFramesPage); got != 1 {
		t.Fatalf("rejected batch must leave keys untouched, frames page = %v", got)
	}
	if notified != 0 {
		t.Fatalf("rejected batch must not notify, got %d notifications", notified)
	}
}

func TestSetRejectsWrongType(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Set(session.KeyFramesPage, "three"); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if err := store.Set(session.Key("bogus"), 1); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestListenerOrderAndIsolation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	var order []string
	store.On(session.KeyVideosPage, func(any) { order = append(order, "first") })
	store.On(session.KeyVideosPage, func(any) {
		order = append(order, "second")
		panic("listener blew up")
	})
	store.On(session.KeyVideosPage, func(any) { order = append(order, "third") })

	if err := store.Set(session.KeyVideosPage, 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected all listeners to run, got %v", order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected registration order %v, got %v", want, order)
		}
	}
	if got := store.Get(session.KeyVideosPage); got != 2 {
		t.Fatalf("mutation must survive listener panic, got %v", got)
	}
}

func TestOffRemovesListener(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	calls := 0
	id := store.On(session.KeyQdrantPage, func(any) { calls++ })
	store.Off(session.KeyQdrantPage, id)

	if err := store.Set(session.KeyQdrantPage, 4); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected removed listener to stay silent, got %d calls", calls)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := session.Open(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.SelectFrames(7, 101, 102, 103)
	store.SelectPoints("pt-a", "pt-b")
	store.TrackExtraction(7, "task-extract-7")
	store.TrackTraining(12, "task-train-12")
	if err := store.Update(map[session.Key]any{
		session.KeyFramesPage:   4,
		session.KeyFocusedVideo: int64(7),
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)

	ids := reopened.SelectedFrameIDs()
	if len(ids) != 3 || ids[0] != 101 || ids[1] != 102 || ids[2] != 103 {
		t.Fatalf("expected selection order preserved, got %v", ids)
	}
	if owner, ok := reopened.FrameSelected(102); !ok || owner != 7 {
		t.Fatalf("expected frame 102 owned by video 7, got %d %v", owner, ok)
	}
	points := reopened.SelectedPointIDs()
	if len(points) != 2 || points[0] != "pt-a" {
		t.Fatalf("expected point selection preserved, got %v", points)
	}
	if task, ok := reopened.ExtractionTask(7); !ok || task != "task-extract-7" {
		t.Fatalf("expected extraction registry entry, got %q %v", task, ok)
	}
	if task, ok := reopened.TrainingTask(12); !ok || task != "task-train-12" {
		t.Fatalf("expected training registry entry, got %q %v", task, ok)
	}
	if got := reopened.Get(session.KeyFramesPage); got != 4 {
		t.Fatalf("expected frames page 4, got %v", got)
	}
	if got := reopened.FocusedVideo(); got != 7 {
		t.Fatalf("expected focused video 7, got %v", got)
	}
}

func TestCorruptSnapshotDegradesToDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := session.Open(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.SelectFrames(3, 55)
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	corruptSlot(t, cfg, "state", "{not json")

	reopened := testsupport.MustOpenStore(t, cfg)
	if ids := reopened.SelectedFrameIDs(); len(ids) != 0 {
		t.Fatalf("expected defaults after corruption, got %v", ids)
	}
	if got := reopened.Get(session.KeyFramesPage); got != 1 {
		t.Fatalf("expected default frames page, got %v", got)
	}
}

func TestSessionIDStableAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := session.Open(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	first := store.SessionID()
	if len(first) != 36 {
		t.Fatalf("expected canonical 36-character session id, got %q", first)
	}
	if store.SessionID() != first {
		t.Fatal("session id changed within one process lifetime")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := session.Open(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	second := reopened.SessionID()
	if err := reopened.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	if second != first {
		t.Fatalf("expected persisted session id %q, got %q", first, second)
	}

	wipeSlot(t, cfg, "session_id")

	fresh := testsupport.MustOpenStore(t, cfg)
	third := fresh.SessionID()
	if third == first {
		t.Fatal("expected a new session id after persistence wipe")
	}
	if fresh.SessionID() != third {
		t.Fatal("new session id must be stable after generation")
	}
}

func TestFocusVideoPrunesForeignSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	store.FocusVideo(3)
	store.SelectFrames(3, 55)

	removed := store.FocusVideo(9)
	if len(removed) != 1 || removed[0] != 55 {
		t.Fatalf("expected frame 55 pruned on focus switch, got %v", removed)
	}
	if ids := store.SelectedFrameIDs(); len(ids) != 0 {
		t.Fatalf("expected empty selection after focus switch, got %v", ids)
	}
}

func TestTimersClearAndCount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	fired := make(chan string, 3)
	store.After("poll-a", time.Hour, func() { fired <- "a" })
	store.After("poll-b", time.Hour, func() { fired <- "b" })
	quick := store.After("poll-quick", 5*time.Millisecond, func() { fired <- "quick" })

	select {
	case name := <-fired:
		if name != "quick" {
			t.Fatalf("unexpected timer fired: %s", name)
		}
	case <-time.After(time.Second):
		t.Fatal("expected quick timer to fire")
	}
	if quick.Stop() {
		t.Fatal("stopping an already fired timer must report false")
	}

	if n := store.ActiveTimers(); n != 2 {
		t.Fatalf("expected 2 registered timers, got %d", n)
	}
	if cleared := store.ClearPolling(); cleared != 2 {
		t.Fatalf("expected ClearPolling to report 2, got %d", cleared)
	}
	if n := store.ActiveTimers(); n != 0 {
		t.Fatalf("expected no timers after clear, got %d", n)
	}

	select {
	case name := <-fired:
		t.Fatalf("cleared timer %s fired", name)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTimerHandleStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	fired := make(chan struct{}, 1)
	handle := store.After("poll-once", 10*time.Millisecond, func() { fired <- struct{}{} })
	if !handle.Stop() {
		t.Fatal("expected Stop to cancel the pending timer")
	}
	if n := store.ActiveTimers(); n != 0 {
		t.Fatalf("expected handle removal on Stop, got %d timers", n)
	}
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(30 * time.Millisecond):
	}
}

// corruptSlot rewrites a persisted slot value underneath the store.
func corruptSlot(t *testing.T, cfg *config.Config, slot, value string) {
	t.Helper()
	db := openSessionDB(t, cfg)
	defer db.Close()
	if _, err := db.Exec(`UPDATE slots SET value = ? WHERE key = ?`, value, slot); err != nil {
		t.Fatalf("corrupt slot: %v", err)
	}
}

func wipeSlot(t *testing.T, cfg *config.Config, slot string) {
	t.Helper()
	db := openSessionDB(t, cfg)
	defer db.Close()
	if _, err := db.Exec(`DELETE FROM slots WHERE key = ?`, slot); err != nil {
		t.Fatalf("wipe slot: %v", err)
	}
}

func openSessionDB(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(cfg.Paths.DataDir, "session.db"))
	if err != nil {
		t.Fatalf("open session db: %v", err)
	}
	return db
}
