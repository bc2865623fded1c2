package api

// Functional options configuring RestClient during construction.

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/zerolog/log"
)

// Option mutates the RestClient during NewRestClient.
type Option func(*RestClient) error

// WithHTTPClient injects a custom *http.Client. Useful for transport
// timeouts, tracing or custom TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RestClient) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RestClient) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the transport so every request/response pair is
// dumped at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *RestClient) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).
			Str("request_dump", string(dump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).
			Msg("HTTP request failed")
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).
			Int("status_code", resp.StatusCode).
			Str("response_dump", string(dump)).Msg("HTTP response")
	}
	return resp, nil
}
