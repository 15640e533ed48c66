package api

import "frameops/internal/lifecycle"

// DTOs mirror the backend's response schemas. Timestamps stay as strings:
// the backend emits naive ISO-8601 datetimes and the console only displays
// them.

// DashboardVideos aggregates video counts per status.
type DashboardVideos struct {
	Total      int `json:"total"`
	Uploaded   int `json:"uploaded"`
	Extracting int `json:"extracting"`
	Extracted  int `json:"extracted"`
	Failed     int `json:"failed"`
}

// DashboardFrames aggregates frame counts per status.
type DashboardFrames struct {
	Total     int `json:"total"`
	Extracted int `json:"extracted"`
	Selected  int `json:"selected"`
	Trained   int `json:"trained"`
	Deleted   int `json:"deleted"`
}

// DashboardTraining aggregates training job counts.
type DashboardTraining struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// DashboardStats is the GET /api/dashboard payload.
type DashboardStats struct {
	Videos       DashboardVideos   `json:"videos"`
	Frames       DashboardFrames   `json:"frames"`
	TrainingJobs DashboardTraining `json:"training_jobs"`
}

// Frame is one page-scoped frame projection. It is never cached beyond the
// fetch that produced it; only the id may survive into the selection set.
type Frame struct {
	ID           int64                 `json:"id"`
	FrameNumber  int                   `json:"frame_number"`
	ThumbnailURL string                `json:"thumbnail_url"`
	Status       lifecycle.FrameStatus `json:"status"`
}

// FrameList is a paginated frame listing for one video.
type FrameList struct {
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Frames   []Frame `json:"frames"`
}

// FrameSelectionResult reports a bulk select/deselect.
type FrameSelectionResult struct {
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// FrameDeleteResult reports a single-frame deletion.
type FrameDeleteResult struct {
	Message string `json:"message"`
}

// BulkFrameDeleteResult reports a bulk frame deletion across stores.
type BulkFrameDeleteResult struct {
	DeletedCount  int    `json:"deleted_count"`
	FailedCount   int    `json:"failed_count"`
	QdrantDeleted int    `json:"qdrant_deleted"`
	S3Deleted     int    `json:"s3_deleted"`
	Message       string `json:"message"`
}

// VideoItem is one row of the video listing.
type VideoItem struct {
	ID          int64                 `json:"id"`
	Filename    string                `json:"filename"`
	AssetName   string                `json:"asset_name"`
	Category    string                `json:"category"`
	Status      lifecycle.VideoStatus `json:"status"`
	TotalFrames int                   `json:"total_frames"`
	FPS         int                   `json:"fps"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

// VideoList is a paginated video listing.
type VideoList struct {
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Videos   []VideoItem `json:"videos"`
}

// VideoDetail carries the per-status frame counters the Videos screen shows.
type VideoDetail struct {
	ID                int64                 `json:"id"`
	Filename          string                `json:"filename"`
	AssetName         string                `json:"asset_name"`
	Category          string                `json:"category"`
	Status            lifecycle.VideoStatus `json:"status"`
	TotalFrames       int                   `json:"total_frames"`
	FPS               int                   `json:"fps"`
	FramesExtracted   int                   `json:"frames_extracted"`
	FramesSelected    int                   `json:"frames_selected"`
	FramesTrained     int                   `json:"frames_trained"`
	FramesDeleted     int                   `json:"frames_deleted"`
	TrainingJobsCount int                   `json:"training_jobs_count"`
	CreatedAt         string                `json:"created_at"`
	UpdatedAt         string                `json:"updated_at"`
}

// UploadMetadata is the client-validated metadata attached to a video upload.
// It travels as multipart form fields next to the file, not as JSON.
type UploadMetadata struct {
	AssetName    string
	ModelNumber  string
	Category     string
	Manufacturer string
	FPS          int
}

// VideoUploadResult reports an accepted upload.
type VideoUploadResult struct {
	VideoID int64                 `json:"video_id"`
	Status  lifecycle.VideoStatus `json:"status"`
	Message string                `json:"message"`
}

// ExtractionTrigger reports an accepted extraction request.
type ExtractionTrigger struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VideoDeletionResult reports a cascading video deletion.
type VideoDeletionResult struct {
	VideoID             int64  `json:"video_id"`
	FramesDeleted       int    `json:"frames_deleted"`
	S3FilesDeleted      int    `json:"s3_files_deleted"`
	QdrantPointsDeleted int    `json:"qdrant_points_deleted"`
	Message             string `json:"message"`
}

// TrainingJobItem is one row of the training job listing.
type TrainingJobItem struct {
	ID              int64               `json:"id"`
	VideoID         int64               `json:"video_id"`
	VideoName       string              `json:"video_name"`
	Status          lifecycle.JobStatus `json:"status"`
	TotalFrames     int                 `json:"total_frames"`
	ProcessedFrames int                 `json:"processed_frames"`
	FailedFrames    int                 `json:"failed_frames"`
	ProgressPercent float64             `json:"progress_percent"`
	StartedAt       string              `json:"started_at"`
	CompletedAt     string              `json:"completed_at"`
	RolledBackAt    string              `json:"rolled_back_at"`
	CreatedAt       string              `json:"created_at"`
}

// TrainingJobList is a paginated training job listing.
type TrainingJobList struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Jobs     []TrainingJobItem `json:"jobs"`
}

// TrainingExecuteResult reports an accepted training run.
type TrainingExecuteResult struct {
	JobID       int64  `json:"job_id"`
	TaskID      string `json:"task_id"`
	TotalFrames int    `json:"total_frames"`
	Message     string `json:"message"`
}

// TrainingStatus is the live status of one training job.
type TrainingStatus struct {
	JobID           int64               `json:"job_id"`
	Status          lifecycle.JobStatus `json:"status"`
	TotalFrames     int                 `json:"total_frames"`
	ProcessedFrames int                 `json:"processed_frames"`
	FailedFrames    int                 `json:"failed_frames"`
	ProgressPercent float64             `json:"progress_percent"`
	StartedAt       string              `json:"started_at"`
}

// TrainingRollbackResult reports an accepted rollback.
type TrainingRollbackResult struct {
	RollbackJobID int64  `json:"rollback_job_id"`
	Message       string `json:"message"`
}

// RollbackStatus reports how far a rollback has unwound.
type RollbackStatus struct {
	JobID                 int64               `json:"job_id"`
	JobStatus             lifecycle.JobStatus `json:"job_status"`
	RolledBackAt          string              `json:"rolled_back_at"`
	FramesStillTrained    int                 `json:"frames_still_trained"`
	FramesResetToSelected int                 `json:"frames_reset_to_selected"`
	IsRollbackComplete    bool                `json:"is_rollback_complete"`
}

// QdrantCollectionInfo summarizes the vector collection.
type QdrantCollectionInfo struct {
	CollectionName string `json:"collection_name"`
	VectorsCount   int64  `json:"vectors_count"`
	PointsCount    int64  `json:"points_count"`
	Status         string `json:"status"`
}

// QdrantPoint is one vector point with its payload.
type QdrantPoint struct {
	PointID string         `json:"point_id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// QdrantSearchResult carries listed or searched points.
type QdrantSearchResult struct {
	Results []QdrantPoint `json:"results"`
	Total   int           `json:"total"`
}

// QdrantSearchRequest parameterizes a semantic search.
type QdrantSearchRequest struct {
	QueryText      string  `json:"query_text,omitempty"`
	Limit          int     `json:"limit"`
	ScoreThreshold float64 `json:"score_threshold,omitempty"`
	FilterCategory string  `json:"filter_category,omitempty"`
}

// QdrantDeleteResult reports a point deletion.
type QdrantDeleteResult struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message"`
}

// HealthService is one service entry in the health report.
type HealthService struct {
	Status    string `json:"status"`
	LatencyMS int    `json:"latency_ms"`
}

// HealthReport is the GET /health payload.
type HealthReport struct {
	Status   string                   `json:"status"`
	Services map[string]HealthService `json:"services"`
	Storage  map[string]float64       `json:"storage"`
}
