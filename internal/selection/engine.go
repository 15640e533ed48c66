package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"frameops/internal/api"
	"frameops/internal/lifecycle"
	"frameops/internal/logging"
	"frameops/internal/session"
)

// verifyThreshold is the selection size above which pre-submission
// verification is skipped and the backend's own validation is trusted.
const verifyThreshold = 50

// verifyPageSize bounds the single listing fetch used for verification.
const verifyPageSize = 100

// ErrNothingSelected is returned when a training run has no frames to submit.
var ErrNothingSelected = errors.New("selection: no frames selected")

// FrameLister is the slice of the gateway the engine needs.
type FrameLister interface {
	ListVideoFrames(ctx context.Context, videoID int64, page, pageSize int, statusFilter string) (*api.FrameList, error)
}

// Engine applies the selection consistency rules on top of the session store.
type Engine struct {
	store  *session.Store
	frames FrameLister
	log    *slog.Logger
}

// NewEngine wires the engine to its store and gateway.
func NewEngine(store *session.Store, frames FrameLister, log *slog.Logger) *Engine {
	return &Engine{store: store, frames: frames, log: logging.OrNop(log)}
}

// Select adds frames from a fetched page to the selection set. Frames whose
// status cannot be selected are skipped with a warning, and frames of a video
// other than the focused one are rejected outright.
func (e *Engine) Select(videoID int64, frames ...api.Frame) ([]int64, error) {
	if focused := e.store.FocusedVideo(); focused != videoID {
		return nil, fmt.Errorf("selection: video %d is not in focus (focused: %d)", videoID, focused)
	}
	accepted := make([]int64, 0, len(frames))
	for _, frame := range frames {
		if !lifecycle.Selectable(frame.Status) {
			e.log.Warn("skipping unselectable frame",
				"frame", frame.ID, "status", frame.Status)
			continue
		}
		accepted = append(accepted, frame.ID)
	}
	if len(accepted) > 0 {
		e.store.SelectFrames(videoID, accepted...)
	}
	return accepted, nil
}

// Deselect removes frames from the selection set.
func (e *Engine) Deselect(frameIDs ...int64) {
	e.store.DeselectFrames(frameIDs...)
}

// ReconcilePage prunes selected frames that a freshly fetched page shows in
// a state that can no longer be selected. Frames absent from the page are
// left alone; only observed state removes membership.
func (e *Engine) ReconcilePage(list *api.FrameList) []int64 {
	stale := make(map[int64]lifecycle.FrameStatus)
	for _, frame := range list.Frames {
		if _, selected := e.store.FrameSelected(frame.ID); !selected {
			continue
		}
		if !lifecycle.Selectable(frame.Status) {
			stale[frame.ID] = frame.Status
		}
	}
	if len(stale) == 0 {
		return nil
	}
	removed := e.store.PruneFrameSelection(func(frameID, _ int64) bool {
		_, isStale := stale[frameID]
		return !isStale
	})
	for _, id := range removed {
		e.log.Info("pruned stale selection", "frame", id, "status", stale[id])
	}
	return removed
}

// PrepareTraining returns the frame ids to submit for a training run on the
// focused video. Selections below the verification threshold are checked
// against a fresh listing and silently shed ids the backend no longer reports
// as selectable; larger selections go out as-is.
func (e *Engine) PrepareTraining(ctx context.Context, videoID int64) ([]int64, error) {
	ids := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, id := range e.store.SelectedFrameIDs() {
		owner, ok := e.store.FrameSelected(id)
		if !ok || owner != videoID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	if len(ids) >= verifyThreshold {
		return ids, nil
	}

	selectable := make(map[int64]struct{}, len(ids))
	for page := 1; ; page++ {
		list, err := e.frames.ListVideoFrames(ctx, videoID, page, verifyPageSize, string(lifecycle.FrameSelected))
		if err != nil {
			return nil, fmt.Errorf("verify selection: %w", err)
		}
		for _, frame := range list.Frames {
			if lifecycle.Selectable(frame.Status) {
				selectable[frame.ID] = struct{}{}
			}
		}
		if page*verifyPageSize >= list.Total || len(list.Frames) == 0 {
			break
		}
	}

	verified := ids[:0]
	var dropped []int64
	for _, id := range ids {
		if _, ok := selectable[id]; ok {
			verified = append(verified, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	if len(dropped) > 0 {
		e.log.Warn("dropping stale frames from training submission",
			"video", videoID, "dropped", len(dropped))
		e.store.DeselectFrames(dropped...)
	}
	if len(verified) == 0 {
		return nil, ErrNothingSelected
	}
	return verified, nil
}
