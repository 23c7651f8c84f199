// Package client is an HTTP client for the media import service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Client talks to a running import service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new import client
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewWithHTTPClient creates a new import client with a custom HTTP client
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Import imports a single filesystem path.
func (c *Client) Import(ctx context.Context, path string) (*pipeline.ImportResult, error) {
	var res pipeline.ImportResult
	err := c.post(ctx, "/v1/import", pipeline.ImportRequest{Path: path}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ImportBatch imports a sequence of file URIs or paths, returning one
// result per input in order.
func (c *Client) ImportBatch(ctx context.Context, uris []string) ([]pipeline.ImportResult, error) {
	var resp pipeline.BatchImportResponse
	err := c.post(ctx, "/v1/import/batch", pipeline.BatchImportRequest{URIs: uris}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ListAssets lists registered assets, optionally filtered.
func (c *Client) ListAssets(ctx context.Context, filter string) ([]pipeline.AssetRecord, error) {
	path := "/v1/assets"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}

	var resp struct {
		Assets []pipeline.AssetRecord `json:"assets"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Assets, nil
}

// UpdateAsset renames and/or retags an asset.
func (c *Client) UpdateAsset(ctx context.Context, id string, req pipeline.UpdateAssetRequest) (*pipeline.AssetRecord, error) {
	var rec pipeline.AssetRecord
	if err := c.do(ctx, http.MethodPatch, "/v1/assets/"+id, req, &rec, http.StatusOK); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteAsset removes an asset from the project.
func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/assets/"+id, nil, nil, http.StatusNoContent)
}

// RequestThumbnail asks the service for a thumbnail job.
func (c *Client) RequestThumbnail(ctx context.Context, assetID string, width, height int) (*pipeline.JobResponse, error) {
	req := pipeline.JobRequest{
		AssetID: assetID,
		Job:     pipeline.JobThumbnail,
		Versions: map[string]int{
			pipeline.DerivedTypeThumbnail: 1,
		},
		Metadata: map[string]string{
			"width":  fmt.Sprintf("%d", width),
			"height": fmt.Sprintf("%d", height),
		},
	}
	var resp pipeline.JobResponse
	if err := c.do(ctx, http.MethodPost, "/v1/jobs", req, &resp, http.StatusOK, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, okStatus ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	ok := false
	for _, status := range okStatus {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
