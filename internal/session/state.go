package session

import (
	"encoding/json"
	"fmt"
)

// Key identifies one addressable piece of session state.
type Key string

const (
	KeyActiveScreen    Key = "active_screen"
	KeyFramesPage      Key = "frames_page"
	KeyFramesPageSize  Key = "frames_page_size"
	KeyFramesFilter    Key = "frames_filter"
	KeyFocusedVideo    Key = "frames_video_id"
	KeyVideosPage      Key = "videos_page"
	KeyVideosFilter    Key = "videos_filter"
	KeyTrainingPage    Key = "training_page"
	KeyTrainingFilter  Key = "training_filter"
	KeyQdrantPage      Key = "qdrant_page"
	KeyQdrantFilter    Key = "qdrant_filter"
	KeySelectedFrames  Key = "selected_frames"
	KeySelectedPoints  Key = "selected_points"
	KeyExtractionTasks Key = "extraction_tasks"
	KeyTrainingTasks   Key = "training_tasks"
)

// allKeys is the canonical notification order for multi-key updates.
var allKeys = []Key{
	KeyActiveScreen,
	KeyFramesPage,
	KeyFramesPageSize,
	KeyFramesFilter,
	KeyFocusedVideo,
	KeyVideosPage,
	KeyVideosFilter,
	KeyTrainingPage,
	KeyTrainingFilter,
	KeyQdrantPage,
	KeyQdrantFilter,
	KeySelectedFrames,
	KeySelectedPoints,
	KeyExtractionTasks,
	KeyTrainingTasks,
}

// State is the serializable session snapshot. Timer handles and the session
// identifier live on the Store and are never part of the snapshot.
//
// SelectedFrames maps frame id to the owning video id recorded at selection
// time; the owning video is what lets a focus switch prune foreign entries
// without any cached frame payloads.
type State struct {
	ActiveScreen   string `json:"active_screen"`
	FramesPage     int    `json:"frames_page"`
	FramesPageSize int    `json:"frames_page_size"`
	FramesFilter   string `json:"frames_filter"`
	FocusedVideo   int64  `json:"frames_video_id"`
	VideosPage     int    `json:"videos_page"`
	VideosFilter   string `json:"videos_filter"`
	TrainingPage   int    `json:"training_page"`
	TrainingFilter string `json:"training_filter"`
	QdrantPage     int    `json:"qdrant_page"`
	QdrantFilter   string `json:"qdrant_filter"`

	SelectedFrames  *orderedMap[int64, int64]  `json:"selected_frames"`
	SelectedPoints  *orderedSet[string]        `json:"selected_points"`
	ExtractionTasks *orderedMap[int64, string] `json:"extraction_tasks"`
	TrainingTasks   *orderedMap[int64, string] `json:"training_tasks"`
}

// Defaults returns the canonical default state.
func Defaults() State {
	return State{
		FramesPage:      1,
		FramesPageSize:  50,
		VideosPage:      1,
		TrainingPage:    1,
		QdrantPage:      1,
		SelectedFrames:  newOrderedMap[int64, int64](),
		SelectedPoints:  newOrderedSet[string](),
		ExtractionTasks: newOrderedMap[int64, string](),
		TrainingTasks:   newOrderedMap[int64, string](),
	}
}

// decodeState merges a persisted snapshot over the defaults. Keys missing
// from the snapshot keep their default value, so newly introduced state does
// not invalidate old snapshots.
func decodeState(data []byte) (State, error) {
	state := Defaults()
	if err := json.Unmarshal(data, &state); err != nil {
		return Defaults(), err
	}
	if state.SelectedFrames == nil {
		state.SelectedFrames = newOrderedMap[int64, int64]()
	}
	if state.SelectedPoints == nil {
		state.SelectedPoints = newOrderedSet[string]()
	}
	if state.ExtractionTasks == nil {
		state.ExtractionTasks = newOrderedMap[int64, string]()
	}
	if state.TrainingTasks == nil {
		state.TrainingTasks = newOrderedMap[int64, string]()
	}
	if state.FramesPage < 1 {
		state.FramesPage = 1
	}
	if state.FramesPageSize < 1 {
		state.FramesPageSize = 50
	}
	return state, nil
}

func (s *State) value(key Key) (any, error) {
	switch key {
	case KeyActiveScreen:
		return s.ActiveScreen, nil
	case KeyFramesPage:
		return s.FramesPage, nil
	case KeyFramesPageSize:
		return s.FramesPageSize, nil
	case KeyFramesFilter:
		return s.FramesFilter, nil
	case KeyFocusedVideo:
		return s.FocusedVideo, nil
	case KeyVideosPage:
		return s.VideosPage, nil
	case KeyVideosFilter:
		return s.VideosFilter, nil
	case KeyTrainingPage:
		return s.TrainingPage, nil
	case KeyTrainingFilter:
		return s.TrainingFilter, nil
	case KeyQdrantPage:
		return s.QdrantPage, nil
	case KeyQdrantFilter:
		return s.QdrantFilter, nil
	case KeySelectedFrames:
		return s.SelectedFrames.Keys(), nil
	case KeySelectedPoints:
		return s.SelectedPoints.Values(), nil
	case KeyExtractionTasks:
		return s.ExtractionTasks.Keys(), nil
	case KeyTrainingTasks:
		return s.TrainingTasks.Keys(), nil
	default:
		return nil, fmt.Errorf("unknown session key %q", key)
	}
}

// assign sets a scalar key. Container keys mutate through the dedicated Store
// helpers so membership semantics cannot be bypassed with a raw Set.
func (s *State) assign(key Key, value any) error {
	switch key {
	case KeyActiveScreen:
		return assignValue(key, value, &s.ActiveScreen)
	case KeyFramesPage:
		return assignValue(key, value, &s.FramesPage)
	case KeyFramesPageSize:
		return assignValue(key, value, &s.FramesPageSize)
	case KeyFramesFilter:
		return assignValue(key, value, &s.FramesFilter)
	case KeyFocusedVideo:
		return assignValue(key, value, &s.FocusedVideo)
	case KeyVideosPage:
		return assignValue(key, value, &s.VideosPage)
	case KeyVideosFilter:
		return assignValue(key, value, &s.VideosFilter)
	case KeyTrainingPage:
		return assignValue(key, value, &s.TrainingPage)
	case KeyTrainingFilter:
		return assignValue(key, value, &s.TrainingFilter)
	case KeyQdrantPage:
		return assignValue(key, value, &s.QdrantPage)
	case KeyQdrantFilter:
		return assignValue(key, value, &s.QdrantFilter)
	case KeySelectedFrames, KeySelectedPoints, KeyExtractionTasks, KeyTrainingTasks:
		return fmt.Errorf("session key %q mutates through its store helpers", key)
	default:
		return fmt.Errorf("unknown session key %q", key)
	}
}

func assignValue[T any](key Key, value any, target *T) error {
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("session key %q expects %T, got %T", key, *target, value)
	}
	*target = typed
	return nil
}

func (s *State) clone() State {
	cp := *s
	cp.SelectedFrames = s.SelectedFrames.clone()
	cp.SelectedPoints = s.SelectedPoints.clone()
	cp.ExtractionTasks = s.ExtractionTasks.clone()
	cp.TrainingTasks = s.TrainingTasks.clone()
	return cp
}
