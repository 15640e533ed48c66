package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// TrainingListParams narrows the training job listing.
type TrainingListParams struct {
	Page         int
	PageSize     int
	VideoID      int64
	StatusFilter string
}

type trainingExecuteRequest struct {
	VideoID  int64   `json:"video_id"`
	FrameIDs []int64 `json:"frame_ids,omitempty"`
}

// ListTrainingJobs fetches one page of training jobs.
func (c *Client) ListTrainingJobs(ctx context.Context, params TrainingListParams) (*TrainingJobList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.VideoID > 0 {
		query.Set("video_id", strconv.FormatInt(params.VideoID, 10))
	}
	if params.StatusFilter != "" {
		query.Set("status_filter", params.StatusFilter)
	}
	var list TrainingJobList
	if err := c.do(ctx, http.MethodGet, "/api/training/list", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ExecuteTraining queues an embedding run. With frameIDs empty the backend
// trains every selected frame of the video.
func (c *Client) ExecuteTraining(ctx context.Context, videoID int64, frameIDs []int64) (*TrainingExecuteResult, error) {
	var result TrainingExecuteResult
	req := trainingExecuteRequest{VideoID: videoID, FrameIDs: frameIDs}
	if err := c.do(ctx, http.MethodPost, "/api/training/execute", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainingJobStatus fetches the live status of one job.
func (c *Client) TrainingJobStatus(ctx context.Context, jobID int64) (*TrainingStatus, error) {
	var status TrainingStatus
	path := fmt.Sprintf("/api/training/%d/status", jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// PauseTraining suspends a processing job after its current frame.
func (c *Client) PauseTraining(ctx context.Context, jobID int64) error {
	path := fmt.Sprintf("/api/training/%d/pause", jobID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// ResumeTraining continues a paused job from where it stopped.
func (c *Client) ResumeTraining(ctx context.Context, jobID int64) error {
	path := fmt.Sprintf("/api/training/%d/resume", jobID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// RollbackTraining queues an unwind of a completed or failed job.
func (c *Client) RollbackTraining(ctx context.Context, jobID int64) (*TrainingRollbackResult, error) {
	var result TrainingRollbackResult
	path := fmt.Sprintf("/api/training/%d/rollback", jobID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainingRollbackStatus reports how far a rollback has unwound.
func (c *Client) TrainingRollbackStatus(ctx context.Context, jobID int64) (*RollbackStatus, error) {
	var status RollbackStatus
	path := fmt.Sprintf("/api/training/%d/rollback-status", jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DeleteTrainingJob removes a job record. The backend rejects deleting a
// job that is still processing.
func (c *Client) DeleteTrainingJob(ctx context.Context, jobID int64) error {
	path := fmt.Sprintf("/api/training/%d", jobID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
