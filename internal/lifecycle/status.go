package lifecycle

import "strings"

// JobStatus represents the lifecycle of a training job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobPaused     JobStatus = "paused"
	JobRolledBack JobStatus = "rolled_back"
)

// FrameStatus represents the lifecycle of an extracted frame.
type FrameStatus string

const (
	FrameExtracted FrameStatus = "extracted"
	FrameSelected  FrameStatus = "selected"
	FrameTraining  FrameStatus = "training"
	FrameTrained   FrameStatus = "trained"
	FrameDeleted   FrameStatus = "deleted"
)

// VideoStatus represents the lifecycle of an uploaded video.
type VideoStatus string

const (
	VideoUploading  VideoStatus = "uploading"
	VideoUploaded   VideoStatus = "uploaded"
	VideoExtracting VideoStatus = "extracting"
	VideoExtracted  VideoStatus = "extracted"
	VideoFailed     VideoStatus = "failed"
)

var allJobStatuses = []JobStatus{
	JobPending,
	JobProcessing,
	JobCompleted,
	JobFailed,
	JobPaused,
	JobRolledBack,
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:    {JobProcessing},
	JobProcessing: {JobCompleted, JobFailed, JobPaused},
	JobPaused:     {JobProcessing},
	JobCompleted:  {JobRolledBack},
	JobFailed:     {JobRolledBack},
	JobRolledBack: {},
}

var jobStatusSet = func() map[JobStatus]struct{} {
	set := make(map[JobStatus]struct{}, len(allJobStatuses))
	for _, status := range allJobStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllJobStatuses returns the ordered list of known job statuses.
func AllJobStatuses() []JobStatus {
	cp := make([]JobStatus, len(allJobStatuses))
	copy(cp, allJobStatuses)
	return cp
}

// ParseJobStatus converts a string into a known JobStatus.
func ParseJobStatus(value string) (JobStatus, bool) {
	normalized := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := jobStatusSet[normalized]
	return normalized, ok
}

// ParseFrameStatus converts a string into a known FrameStatus.
func ParseFrameStatus(value string) (FrameStatus, bool) {
	normalized := FrameStatus(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case FrameExtracted, FrameSelected, FrameTraining, FrameTrained, FrameDeleted:
		return normalized, true
	default:
		return "", false
	}
}

// CanTransition reports whether the backend permits moving a job from one
// status to another.
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanPause reports whether a job may be paused. Only in-flight jobs qualify.
func CanPause(status JobStatus) bool {
	return status == JobProcessing
}

// CanResume reports whether a job may be resumed. Only paused jobs qualify.
func CanResume(status JobStatus) bool {
	return status == JobPaused
}

// CanRollback reports whether a job may be rolled back. Rollback applies to
// terminal outcomes only; an already rolled back job offers no further action.
func CanRollback(status JobStatus) bool {
	return status == JobCompleted || status == JobFailed
}

// CanDelete reports whether a job may be deleted. Processing jobs must be
// paused or allowed to finish first.
func CanDelete(status JobStatus) bool {
	return status != JobProcessing
}

// IsTerminal reports whether no further transitions are modeled for a status.
func IsTerminal(status JobStatus) bool {
	return len(jobTransitions[status]) == 0
}

// Finished reports whether a job run has ended, successfully or not. The
// backend's final progress event carries one of these; a rollback settles
// through its own completion event.
func Finished(status JobStatus) bool {
	return status == JobCompleted || status == JobFailed
}

// Selectable reports whether a frame in the given status may sit in the
// selection set. Any other observation removes it.
func Selectable(status FrameStatus) bool {
	return status == FrameExtracted || status == FrameSelected
}
