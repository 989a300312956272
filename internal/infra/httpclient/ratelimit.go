package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedTransport blocks each outbound request until the limiter
// grants a token. Trial keys for the generation/rerank API enforce a low
// requests-per-minute ceiling, and 429 responses would otherwise surface as
// hard pipeline failures.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewRateLimitedClient wraps a pooled client with a client-side limiter of
// rps requests per second (burst 1). A rps of zero or less disables the
// limiter.
func NewRateLimitedClient(timeout time.Duration, rps float64) *http.Client {
	if rps <= 0 {
		return NewPooledClient(timeout)
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &rateLimitedTransport{
			base:    sharedTransport,
			limiter: rate.NewLimiter(rate.Limit(rps), 1),
		},
	}
}
