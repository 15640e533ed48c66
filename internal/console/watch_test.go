package console_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"frameops/internal/config"
	"frameops/internal/console"
	"frameops/internal/push"
	"frameops/internal/testsupport"
)

func TestWatcherRollbackCompleted(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)
	training := &fakeScreen{name: "training"}
	registry.Register(training)
	if err := registry.Activate("training"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	store.TrackTraining(11, "task-abc")

	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Backend.WebsocketURL = "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/progress"
	cfg.Push.HeartbeatInterval = 0

	out := &safeBuffer{}
	channel := push.NewChannel(&cfg, store.SessionID(), console.StoreScheduler{Store: store}, nil)
	watcher := console.NewWatcher(channel, store, registry, out, nil)
	watcher.Bind()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(5 * time.Second):
		t.Fatal("no websocket connection arrived")
	}
	conn.WriteJSON(map[string]any{
		"type":         "rollback_completed",
		"job_id":       11,
		"frames_reset": []int64{101, 102, 103},
	})

	waitForReloads(t, training, 1)
	if _, tracked := store.TrainingTask(11); tracked {
		t.Fatal("settled training task should be dropped")
	}
	if !strings.Contains(out.String(), "3 frame(s) reset to selected") {
		t.Fatalf("output missing rollback line:\n%s", out.String())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherTrainingCompletedSettlesJob(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)
	training := &fakeScreen{name: "training"}
	registry.Register(training)
	if err := registry.Activate("training"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	store.TrackTraining(21, "task-def")

	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Backend.WebsocketURL = "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/progress"
	cfg.Push.HeartbeatInterval = 0

	out := &safeBuffer{}
	channel := push.NewChannel(&cfg, store.SessionID(), console.StoreScheduler{Store: store}, nil)
	watcher := console.NewWatcher(channel, store, registry, out, nil)
	watcher.Bind()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(5 * time.Second):
		t.Fatal("no websocket connection arrived")
	}
	// Mid-run progress must not settle anything.
	conn.WriteJSON(map[string]any{
		"type": "training_progress", "job_id": 21, "status": "processing",
		"current": 5, "total": 10, "percent": 50.0,
	})
	// The final event carries the run outcome, not rolled_back.
	conn.WriteJSON(map[string]any{
		"type": "training_progress", "job_id": 21, "status": "completed",
		"current": 10, "total": 10, "percent": 100.0,
	})

	waitForReloads(t, training, 1)
	if _, tracked := store.TrainingTask(21); tracked {
		t.Fatal("completed training job should be dropped from the task registry")
	}
	if !strings.Contains(out.String(), "completed") {
		t.Fatalf("output missing completion line:\n%s", out.String())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
