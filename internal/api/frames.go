package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Selection actions accepted by the frame selection endpoint.
const (
	SelectionSelect   = "select"
	SelectionDeselect = "deselect"
)

type frameSelectionRequest struct {
	FrameIDs []int64 `json:"frame_ids"`
	Action   string  `json:"action"`
}

type bulkFrameDeleteRequest struct {
	FrameIDs  []int64 `json:"frame_ids"`
	Permanent bool    `json:"permanent"`
}

// UpdateSelection marks frames selected or deselected on the backend.
func (c *Client) UpdateSelection(ctx context.Context, frameIDs []int64, action string) (*FrameSelectionResult, error) {
	if action != SelectionSelect && action != SelectionDeselect {
		return nil, fmt.Errorf("frame selection: unknown action %q", action)
	}
	if len(frameIDs) == 0 {
		return nil, fmt.Errorf("frame selection: no frames given")
	}
	var result FrameSelectionResult
	req := frameSelectionRequest{FrameIDs: frameIDs, Action: action}
	if err := c.do(ctx, http.MethodPatch, "/api/frames/selection", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFrame removes one frame. With permanent set, the backend also purges
// its stored files and vector point instead of soft-deleting.
func (c *Client) DeleteFrame(ctx context.Context, frameID int64, permanent bool) (*FrameDeleteResult, error) {
	query := url.Values{}
	if permanent {
		query.Set("permanent", "true")
	}
	var result FrameDeleteResult
	path := fmt.Sprintf("/api/frames/%d", frameID)
	if err := c.do(ctx, http.MethodDelete, path, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFrames removes frames in bulk. With permanent set, the backend also
// purges the thumbnails and vector points instead of soft-deleting.
func (c *Client) DeleteFrames(ctx context.Context, frameIDs []int64, permanent bool) (*BulkFrameDeleteResult, error) {
	if len(frameIDs) == 0 {
		return nil, fmt.Errorf("frame delete: no frames given")
	}
	var result BulkFrameDeleteResult
	req := bulkFrameDeleteRequest{FrameIDs: frameIDs, Permanent: permanent}
	if err := c.do(ctx, http.MethodDelete, "/api/frames/bulk", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
