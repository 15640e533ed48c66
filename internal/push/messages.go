package push

import "frameops/internal/lifecycle"

// Event types the backend emits over the progress channel.
const (
	TypeExtractionProgress = "extraction_progress"
	TypeTrainingProgress   = "training_progress"
	TypeTrainingPaused     = "training_paused"
	TypeTrainingResumed    = "training_resumed"
	TypeRollbackProgress   = "rollback_progress"
	TypeRollbackCompleted  = "rollback_completed"
)

// Event is one progress message. Fields outside the type's shape arrive
// zero-valued; handlers read only what their type defines.
type Event struct {
	Type            string              `json:"type"`
	ClientSessionID string              `json:"client_session_id,omitempty"`
	VideoID         int64               `json:"video_id,omitempty"`
	JobID           int64               `json:"job_id,omitempty"`
	Current         int                 `json:"current,omitempty"`
	Total           int                 `json:"total,omitempty"`
	Percent         float64             `json:"percent,omitempty"`
	Status          lifecycle.JobStatus `json:"status,omitempty"`
	Message         string              `json:"message,omitempty"`
	FramesReset     []int64             `json:"frames_reset,omitempty"`
}

// ForSession reports whether the event is addressed to the given session.
// Events without an address are broadcast and pass for everyone.
func (e Event) ForSession(sessionID string) bool {
	return e.ClientSessionID == "" || e.ClientSessionID == sessionID
}
