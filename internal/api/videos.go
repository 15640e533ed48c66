package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// VideoListParams narrows the video listing.
type VideoListParams struct {
	Page           int
	PageSize       int
	StatusFilter   string
	CategoryFilter string
}

// ListVideos fetches one page of the video catalog.
func (c *Client) ListVideos(ctx context.Context, params VideoListParams) (*VideoList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.StatusFilter != "" {
		query.Set("status_filter", params.StatusFilter)
	}
	if params.CategoryFilter != "" {
		query.Set("category_filter", params.CategoryFilter)
	}
	var list VideoList
	if err := c.do(ctx, http.MethodGet, "/api/video/list", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetVideo fetches one video with its per-status frame counters.
func (c *Client) GetVideo(ctx context.Context, videoID int64) (*VideoDetail, error) {
	var detail VideoDetail
	path := fmt.Sprintf("/api/video/%d", videoID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UploadVideo streams a video file with its metadata as one multipart form.
// The backend hashes the file to detect duplicate uploads; a duplicate comes
// back as a 409 with the existing video id in the detail. Client-side
// validation only catches the obvious metadata mistakes early.
func (c *Client) UploadVideo(ctx context.Context, videoPath string, meta UploadMetadata) (*VideoUploadResult, error) {
	if err := validateUpload(meta); err != nil {
		return nil, err
	}
	file, err := os.Open(videoPath)
	if err != nil {
		return nil, transportError(fmt.Sprintf("open video %s", videoPath), err)
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("video", filepath.Base(videoPath))
	if err == nil {
		_, err = io.Copy(part, file)
	}
	if err != nil {
		return nil, transportError("assemble upload form", err)
	}
	form.WriteField("asset_name", meta.AssetName)
	form.WriteField("category", meta.Category)
	if meta.ModelNumber != "" {
		form.WriteField("model_number", meta.ModelNumber)
	}
	if meta.Manufacturer != "" {
		form.WriteField("manufacturer", meta.Manufacturer)
	}
	form.WriteField("fps", strconv.Itoa(meta.FPS))
	if err := form.Close(); err != nil {
		return nil, transportError("assemble upload form", err)
	}

	var result VideoUploadResult
	if err := c.doForm(ctx, "/api/video/upload", form.FormDataContentType(), &buf, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractFrames queues frame extraction for a video.
func (c *Client) ExtractFrames(ctx context.Context, videoID int64) (*ExtractionTrigger, error) {
	var trigger ExtractionTrigger
	path := fmt.Sprintf("/api/video/%d/extract", videoID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &trigger); err != nil {
		return nil, err
	}
	return &trigger, nil
}

// ListVideoFrames fetches one page of a video's frames.
func (c *Client) ListVideoFrames(ctx context.Context, videoID int64, page, pageSize int, statusFilter string) (*FrameList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	if statusFilter != "" {
		query.Set("status_filter", statusFilter)
	}
	var list FrameList
	path := fmt.Sprintf("/api/video/%d/frames", videoID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// VideoUpdate carries the metadata fields a video update may change. Nil
// pointers leave the backend value untouched.
type VideoUpdate struct {
	AssetName    *string `json:"asset_name,omitempty"`
	ModelNumber  *string `json:"model_number,omitempty"`
	Category     *string `json:"category,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

// UpdateVideo patches a video's metadata.
func (c *Client) UpdateVideo(ctx context.Context, videoID int64, update VideoUpdate) (*VideoDetail, error) {
	var detail VideoDetail
	path := fmt.Sprintf("/api/video/%d", videoID)
	if err := c.do(ctx, http.MethodPatch, path, nil, update, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteVideo removes a video and everything derived from it.
func (c *Client) DeleteVideo(ctx context.Context, videoID int64) (*VideoDeletionResult, error) {
	var result VideoDeletionResult
	path := fmt.Sprintf("/api/video/%d", videoID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func validateUpload(meta UploadMetadata) error {
	if meta.AssetName == "" {
		return fmt.Errorf("upload metadata: asset name is required")
	}
	if meta.Category == "" {
		return fmt.Errorf("upload metadata: category is required")
	}
	if meta.FPS < 1 || meta.FPS > 10 {
		return fmt.Errorf("upload metadata: fps %d out of range 1-10", meta.FPS)
	}
	return nil
}
