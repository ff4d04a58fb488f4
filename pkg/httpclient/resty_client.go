package httpclient

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures the resty client handed to the auth driver.
type Options struct {
	Timeout time.Duration
	BaseURL string
	Headers map[string]string
}

// NewRestyHTTPClient creates a configured resty.Client. Retries stay disabled;
// the driver never retries on its own.
func NewRestyHTTPClient(opts Options) *resty.Client {
	c := resty.New()
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		c.SetBaseURL(strings.TrimRight(base, "/"))
	}
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	c.SetRetryCount(0)
	return c
}
