package inference

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient paces calls to an inner Client so that runs sharing a
// credential stay under its request rate.
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient allows rps calls per second with the given burst.
// A non-positive rps disables pacing.
func NewRateLimitedClient(inner Client, rps float64, burst int) *RateLimitedClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(limit, max(burst, 1)),
	}
}

// Invoke waits for a token and forwards the call.
func (c *RateLimitedClient) Invoke(ctx context.Context, modelID string, messages []Message, params Parameters) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: "rate limit", Err: fmt.Errorf("waiting for %s: %w", modelID, err)}
	}
	return c.inner.Invoke(ctx, modelID, messages, params)
}

var _ Client = (*RateLimitedClient)(nil)
