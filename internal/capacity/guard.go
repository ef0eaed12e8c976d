package capacity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/microsoft/modelbench/internal/inference"
)

// Result is a successful guarded call.
type Result struct {
	Response *inference.Response
	// ModelID is the model that served the call.
	ModelID  string
	Tier     Tier
	Attempts int
}

// Guard wraps a Client with capacity-aware sizing and a bounded retry cascade.
type Guard struct {
	client     inference.Client
	checker    inference.CapacityChecker
	policy     Policy
	credential string
}

// NewGuard creates a guard. A nil checker means capacity is never limiting.
func NewGuard(client inference.Client, checker inference.CapacityChecker, policy Policy, credential string) *Guard {
	if checker == nil {
		checker = inference.Unlimited
	}
	return &Guard{
		client:     client,
		checker:    checker,
		policy:     policy,
		credential: credential,
	}
}

// Policy returns the guard's policy.
func (g *Guard) Policy() Policy {
	return g.policy
}

// Invoke performs one best-effort call. Capacity failures are retried at
// most MaxAttempts-1 times with smaller requests; any other error is
// returned immediately.
func (g *Guard) Invoke(ctx context.Context, req Request) (*Result, error) {
	available := g.checker.CheckCapacity(ctx, g.credential, req.ModelID)
	attempt := g.policy.Plan(req, available)
	if attempt.ModelID != req.ModelID || attempt.Params.MaxTokens != req.Params.MaxTokens {
		slog.Info("capacity guard resized request",
			"model", req.ModelID,
			"served_by", attempt.ModelID,
			"available", available,
			"max_tokens", attempt.Params.MaxTokens)
	}

	for n := 1; n <= MaxAttempts; n++ {
		resp, err := g.client.Invoke(ctx, attempt.ModelID, attempt.Messages, attempt.Params)
		if err == nil {
			return &Result{
				Response: resp,
				ModelID:  attempt.ModelID,
				Tier:     attempt.Tier,
				Attempts: n,
			}, nil
		}

		var capErr *inference.CapacityError
		if !errors.As(err, &capErr) {
			return nil, err
		}

		next, ok := g.policy.Next(attempt, capErr)
		if !ok {
			return nil, fmt.Errorf("capacity exhausted after %d attempts on %s: %w", n, req.ModelID, err)
		}
		slog.Warn("capacity error, retrying with smaller request",
			"model", req.ModelID,
			"failed_tier", attempt.Tier.String(),
			"next_tier", next.Tier.String(),
			"served_by", next.ModelID,
			"available", next.Available,
			"max_tokens", next.Params.MaxTokens,
			"error", err)
		attempt = next
	}

	// Next refuses to go past TierLastResort, so the loop always returns.
	return nil, fmt.Errorf("capacity guard exceeded %d attempts on %s", MaxAttempts, req.ModelID)
}
