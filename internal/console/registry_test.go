package console_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"frameops/internal/console"
	"frameops/internal/testsupport"
)

type fakeScreen struct {
	name string

	mu      sync.Mutex
	reloads int
}

func (f *fakeScreen) Name() string { return f.name }

func (f *fakeScreen) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeScreen) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

func waitForReloads(t *testing.T, screen *fakeScreen, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if screen.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("screen %s reloads = %d, want %d", screen.name, screen.count(), want)
}

func TestRegistryActivateUnknownScreen(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)

	if err := registry.Activate("nope"); err == nil {
		t.Fatal("expected error activating unknown screen")
	}
}

func TestRegistryReloadsOnlyActiveScreen(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)
	videos := &fakeScreen{name: "videos"}
	frames := &fakeScreen{name: "frames"}
	registry.Register(videos)
	registry.Register(frames)

	if err := registry.Activate("videos"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := registry.Active(); got != "videos" {
		t.Fatalf("Active = %q, want videos", got)
	}

	registry.ScheduleReload([]string{"frames", "videos"}, 10*time.Millisecond)
	waitForReloads(t, videos, 1)

	time.Sleep(100 * time.Millisecond)
	if got := frames.count(); got != 0 {
		t.Fatalf("inactive screen reloads = %d, want 0", got)
	}
}

func TestRegistryActivateCancelsPendingReloads(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)
	videos := &fakeScreen{name: "videos"}
	frames := &fakeScreen{name: "frames"}
	registry.Register(videos)
	registry.Register(frames)

	if err := registry.Activate("videos"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	registry.ScheduleReload([]string{"videos"}, 200*time.Millisecond)
	if err := registry.Activate("frames"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	time.Sleep(400 * time.Millisecond)
	if got := videos.count(); got != 0 {
		t.Fatalf("cancelled reload still ran: reloads = %d", got)
	}
}

func TestRegistryNoActiveScreenSchedulesNothing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	registry := console.NewRegistry(store, nil)
	videos := &fakeScreen{name: "videos"}
	registry.Register(videos)

	registry.ScheduleReload([]string{"videos"}, time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	if got := videos.count(); got != 0 {
		t.Fatalf("reloads without active screen = %d, want 0", got)
	}
}
