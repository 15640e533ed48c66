package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"frameops/internal/api"
	"frameops/internal/lifecycle"
	"frameops/internal/logging"
	"frameops/internal/push"
	"frameops/internal/session"
)

// StoreScheduler backs the push channel's timers with the session store's
// timer registry, so screen switches cancel pending reconnects too.
type StoreScheduler struct {
	Store *session.Store
}

func (s StoreScheduler) After(name string, delay time.Duration, fn func()) {
	s.Store.After(name, delay, fn)
}

// eventSettleDelay gives the backend a moment to commit the state an event
// announced before the reload fetches it.
const eventSettleDelay = 250 * time.Millisecond

// Watcher translates progress events into terminal lines, session updates
// and screen reloads.
type Watcher struct {
	channel  *push.Channel
	store    *session.Store
	registry *Registry
	out      io.Writer
	colorize bool
	log      *slog.Logger
}

func NewWatcher(channel *push.Channel, store *session.Store, registry *Registry, out io.Writer, log *slog.Logger) *Watcher {
	return &Watcher{
		channel:  channel,
		store:    store,
		registry: registry,
		out:      out,
		colorize: shouldColorize(out),
		log:      logging.OrNop(log),
	}
}

// Bind registers the event handlers. Call once before Run.
func (w *Watcher) Bind() {
	w.channel.On(push.TypeExtractionProgress, w.onExtraction)
	w.channel.On(push.TypeTrainingProgress, w.onTraining)
	w.channel.On(push.TypeTrainingPaused, w.onPauseResume)
	w.channel.On(push.TypeTrainingResumed, w.onPauseResume)
	w.channel.On(push.TypeRollbackProgress, w.onRollbackProgress)
	w.channel.On(push.TypeRollbackCompleted, w.onRollbackCompleted)
	w.channel.OnStatus(w.onStatus)
}

// Run connects the channel and blocks until the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.channel.Connect(ctx); err != nil {
		// The channel keeps retrying on its own; the watcher stays up.
		w.log.Warn("initial connect failed, retrying in background", "error", err)
	}
	<-ctx.Done()
	w.channel.Disconnect()
	return nil
}

func (w *Watcher) onExtraction(event push.Event) {
	fmt.Fprintf(w.out, "extraction video=%d %d/%d (%.0f%%)\n",
		event.VideoID, event.Current, event.Total, event.Percent)
	if event.Percent >= 100 {
		if w.store.DropExtraction(event.VideoID) {
			w.log.Info("extraction finished", "video", event.VideoID)
		}
		w.registry.ScheduleReload([]string{api.ScreenVideos, api.ScreenFrames, api.ScreenDashboard}, eventSettleDelay)
	}
}

func (w *Watcher) onTraining(event push.Event) {
	fmt.Fprintf(w.out, "training job=%d %d/%d (%.0f%%) %s\n",
		event.JobID, event.Current, event.Total, event.Percent, event.Status)
	if lifecycle.Finished(event.Status) {
		if w.store.DropTraining(event.JobID) {
			w.log.Info("training settled", "job", event.JobID, "status", event.Status)
		}
		w.registry.ScheduleReload([]string{api.ScreenTraining, api.ScreenFrames, api.ScreenDashboard}, eventSettleDelay)
	}
}

func (w *Watcher) onPauseResume(event push.Event) {
	fmt.Fprintf(w.out, "training job=%d %s\n", event.JobID, event.Type)
	w.registry.ScheduleReload([]string{api.ScreenTraining, api.ScreenDashboard}, eventSettleDelay)
}

func (w *Watcher) onRollbackProgress(event push.Event) {
	fmt.Fprintf(w.out, "rollback job=%d %d/%d (%.0f%%)\n",
		event.JobID, event.Current, event.Total, event.Percent)
}

func (w *Watcher) onRollbackCompleted(event push.Event) {
	fmt.Fprintf(w.out, "rollback job=%d completed, %d frame(s) reset to selected\n",
		event.JobID, len(event.FramesReset))
	if w.store.DropTraining(event.JobID) {
		w.log.Info("rollback settled", "job", event.JobID)
	}
	w.registry.ScheduleReload([]string{api.ScreenTraining, api.ScreenFrames, api.ScreenDashboard}, eventSettleDelay)
}

func (w *Watcher) onStatus(live bool) {
	line, color := "progress channel lost, reconnecting...", ansiRed
	if live {
		line, color = "progress channel connected", ansiGreen
	}
	if w.colorize {
		line = color + line + ansiReset
	}
	fmt.Fprintln(w.out, line)
}
