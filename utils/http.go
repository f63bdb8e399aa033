// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns a client for calls to sibling services. Token
// verification sits on the login path, so callers should keep timeout short.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
