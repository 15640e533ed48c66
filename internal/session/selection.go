package session

// Selection-set and in-flight-registry helpers. These are the only mutation
// paths for container keys, keeping membership rules in one place.

// SelectFrames records frame ids for the given video in the selection set.
// Already-selected ids keep their original position.
func (s *Store) SelectFrames(videoID int64, frameIDs ...int64) {
	s.mutate(func(state *State) []Key {
		changed := false
		for _, id := range frameIDs {
			if _, ok := state.SelectedFrames.Get(id); !ok {
				changed = true
			}
			state.SelectedFrames.Set(id, videoID)
		}
		if !changed {
			return nil
		}
		return []Key{KeySelectedFrames}
	})
}

// DeselectFrames removes frame ids from the selection set.
func (s *Store) DeselectFrames(frameIDs ...int64) {
	s.mutate(func(state *State) []Key {
		changed := false
		for _, id := range frameIDs {
			if state.SelectedFrames.Delete(id) {
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return []Key{KeySelectedFrames}
	})
}

// SelectedFrameIDs returns the selected frame ids in selection order.
func (s *Store) SelectedFrameIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedFrames.Keys()
}

// FrameSelected reports membership and the video recorded for a frame id.
func (s *Store) FrameSelected(frameID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedFrames.Get(frameID)
}

// PruneFrameSelection removes every selected frame the keep predicate
// rejects and returns the removed ids.
func (s *Store) PruneFrameSelection(keep func(frameID, videoID int64) bool) []int64 {
	var removed []int64
	s.mutate(func(state *State) []Key {
		removed = state.SelectedFrames.Prune(keep)
		if len(removed) == 0 {
			return nil
		}
		return []Key{KeySelectedFrames}
	})
	return removed
}

// ClearFrameSelection empties the frame selection set.
func (s *Store) ClearFrameSelection() int {
	cleared := 0
	s.mutate(func(state *State) []Key {
		cleared = state.SelectedFrames.Clear()
		if cleared == 0 {
			return nil
		}
		return []Key{KeySelectedFrames}
	})
	return cleared
}

// FocusVideo switches the in-focus video and prunes selected frames that
// belong to any other video. Selection never spans videos.
func (s *Store) FocusVideo(videoID int64) []int64 {
	var removed []int64
	s.mutate(func(state *State) []Key {
		changed := make([]Key, 0, 2)
		if state.FocusedVideo != videoID {
			state.FocusedVideo = videoID
			changed = append(changed, KeyFocusedVideo)
		}
		removed = state.SelectedFrames.Prune(func(_, owner int64) bool {
			return owner == videoID
		})
		if len(removed) > 0 {
			changed = append(changed, KeySelectedFrames)
		}
		return changed
	})
	return removed
}

// FocusedVideo returns the video currently in focus, zero when none.
func (s *Store) FocusedVideo() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FocusedVideo
}

// SelectPoints adds vector point ids to the point selection set.
func (s *Store) SelectPoints(pointIDs ...string) {
	s.mutate(func(state *State) []Key {
		changed := false
		for _, id := range pointIDs {
			if state.SelectedPoints.Add(id) {
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return []Key{KeySelectedPoints}
	})
}

// DeselectPoints removes vector point ids from the point selection set.
func (s *Store) DeselectPoints(pointIDs ...string) {
	s.mutate(func(state *State) []Key {
		changed := false
		for _, id := range pointIDs {
			if state.SelectedPoints.Remove(id) {
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return []Key{KeySelectedPoints}
	})
}

// SelectedPointIDs returns the selected point ids in selection order.
func (s *Store) SelectedPointIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedPoints.Values()
}

// ClearPointSelection empties the point selection set.
func (s *Store) ClearPointSelection() int {
	cleared := 0
	s.mutate(func(state *State) []Key {
		cleared = state.SelectedPoints.Clear()
		if cleared == 0 {
			return nil
		}
		return []Key{KeySelectedPoints}
	})
	return cleared
}

// TrackExtraction records the backend task handle for a video extraction.
func (s *Store) TrackExtraction(videoID int64, taskID string) {
	s.mutate(func(state *State) []Key {
		state.ExtractionTasks.Set(videoID, taskID)
		return []Key{KeyExtractionTasks}
	})
}

// ExtractionTask returns the in-flight extraction task for a video.
func (s *Store) ExtractionTask(videoID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ExtractionTasks.Get(videoID)
}

// DropExtraction forgets the extraction task for a video once it settles.
func (s *Store) DropExtraction(videoID int64) bool {
	dropped := false
	s.mutate(func(state *State) []Key {
		dropped = state.ExtractionTasks.Delete(videoID)
		if !dropped {
			return nil
		}
		return []Key{KeyExtractionTasks}
	})
	return dropped
}

// TrackTraining records the backend task handle for a training job.
func (s *Store) TrackTraining(jobID int64, taskID string) {
	s.mutate(func(state *State) []Key {
		state.TrainingTasks.Set(jobID, taskID)
		return []Key{KeyTrainingTasks}
	})
}

// TrainingTask returns the in-flight training task for a job.
func (s *Store) TrainingTask(jobID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TrainingTasks.Get(jobID)
}

// DropTraining forgets the training task for a job once it settles.
func (s *Store) DropTraining(jobID int64) bool {
	dropped := false
	s.mutate(func(state *State) []Key {
		dropped = state.TrainingTasks.Delete(jobID)
		if !dropped {
			return nil
		}
		return []Key{KeyTrainingTasks}
	})
	return dropped
}
