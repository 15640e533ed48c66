package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type qdrantDeleteRequest struct {
	PointIDs []string `json:"point_ids"`
}

// QdrantCollection fetches the vector collection summary.
func (c *Client) QdrantCollection(ctx context.Context) (*QdrantCollectionInfo, error) {
	var info QdrantCollectionInfo
	if err := c.do(ctx, http.MethodGet, "/api/qdrant/collection/info", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListQdrantPoints scrolls through stored points, optionally restricted to
// one category.
func (c *Client) ListQdrantPoints(ctx context.Context, limit, offset int, category string) (*QdrantSearchResult, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	if category != "" {
		query.Set("category", category)
	}
	var result QdrantSearchResult
	if err := c.do(ctx, http.MethodGet, "/api/qdrant/points/list", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetQdrantPoint fetches one point with its payload.
func (c *Client) GetQdrantPoint(ctx context.Context, pointID string) (*QdrantPoint, error) {
	var point QdrantPoint
	path := fmt.Sprintf("/api/qdrant/point/%s", url.PathEscape(pointID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

// SearchQdrant runs a semantic text search over the collection.
func (c *Client) SearchQdrant(ctx context.Context, req QdrantSearchRequest) (*QdrantSearchResult, error) {
	if req.QueryText == "" {
		return nil, fmt.Errorf("qdrant search: query text is required")
	}
	var result QdrantSearchResult
	if err := c.do(ctx, http.MethodPost, "/api/qdrant/search", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteQdrantPoints removes vector points by id.
func (c *Client) DeleteQdrantPoints(ctx context.Context, pointIDs []string) (*QdrantDeleteResult, error) {
	if len(pointIDs) == 0 {
		return nil, fmt.Errorf("qdrant delete: no points given")
	}
	var result QdrantDeleteResult
	req := qdrantDeleteRequest{PointIDs: pointIDs}
	if err := c.do(ctx, http.MethodDelete, "/api/qdrant/points", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
