package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"artexport/types"
)

// UploadResponse is the optional body returned by the upload endpoint
type UploadResponse struct {
	ID string `json:"id,omitempty"`
}

// Upload sends the payload to the upload endpoint
func (c *UploadClient) Upload(ctx context.Context, payload types.UploadPayload) (*UploadResponse, error) {
	var result UploadResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, c.endpoint, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListUploads fetches recent uploads from a receiver exposing GET <endpoint-base>/uploads
func (c *UploadClient) ListUploads(ctx context.Context, listURL string) ([]types.UploadRecord, error) {
	var result struct {
		Uploads []types.UploadRecord `json:"uploads"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, listURL, nil, &result); err != nil {
		return nil, err
	}
	return result.Uploads, nil
}

// FollowUpURL appends the URL-encoded title to base as the given query parameter.
// Spaces are encoded as %20 rather than '+'.
func FollowUpURL(base, param, title string) string {
	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return base + sep + param + "=" + EncodeComponent(title)
}

// EncodeComponent percent-encodes s for use as a single query value
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
