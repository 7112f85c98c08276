package client

import "net/http"

// UploadClient posts exported designs to the upload endpoint
type UploadClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Option customises an UploadClient
type Option func(*UploadClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *UploadClient) {
		c.httpClient = hc
	}
}

// NewUploadClient creates a client for the given endpoint and bearer token.
// The default HTTP client has no timeout; callers bound requests through the context.
func NewUploadClient(endpoint, token string, opts ...Option) *UploadClient {
	c := &UploadClient{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured upload URL
func (c *UploadClient) Endpoint() string {
	return c.endpoint
}
