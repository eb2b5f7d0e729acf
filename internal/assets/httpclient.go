package assets

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the HTTP client used for asset fetches: generous
// request timeout for large audio files, pooled connections for hosts that
// serve many assets.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
