package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TwigBush/indexgate/internal/metrics"
	"github.com/TwigBush/indexgate/internal/trace"
)

const DefaultTimeout = 3 * time.Second

// Gate turns an oracle answer into allow, Forbidden or
// AuthorizationUnavailable. It keeps no state between calls.
type Gate struct {
	authorizer Authorizer
	timeout    time.Duration
	log        *slog.Logger
}

type GateOption func(*Gate)

func WithTimeout(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGate(a Authorizer, opts ...GateOption) *Gate {
	g := &Gate{
		authorizer: a,
		timeout:    DefaultTimeout,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

type checkResult struct {
	d   Decision
	err error
}

// Check asks the oracle whether credential holds p. It returns only after
// the oracle answered or the timeout elapsed; a nil error means allowed.
func (g *Gate) Check(ctx context.Context, credential string, p Permission) (Decision, error) {
	if credential == "" {
		g.observe(ctx, p, "unauthenticated", 0, nil)
		return Decision{}, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	// buffered so the oracle goroutine never blocks after a timeout
	ch := make(chan checkResult, 1)
	go func() {
		d, err := g.authorizer.Check(ctx, requestFor(credential, p))
		ch <- checkResult{d: d, err: err}
	}()

	var res checkResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	took := time.Since(start)

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) {
			res.err = fmt.Errorf("oracle timed out after %s: %w", g.timeout, res.err)
		}
		g.observe(ctx, p, "unavailable", took, res.err)
		return Decision{}, fmt.Errorf("%w: %w", ErrAuthorizationUnavailable, res.err)
	}
	if !res.d.Allowed {
		g.observe(ctx, p, "denied", took, nil)
		return res.d, &DeniedError{Permission: p, Reason: res.d.Reason}
	}
	g.observe(ctx, p, "allowed", took, nil)
	return res.d, nil
}

func (g *Gate) observe(ctx context.Context, p Permission, outcome string, took time.Duration, err error) {
	metrics.ObserveDecision(p.Action, p.Resource, outcome, took)

	attrs := []any{
		"trace", trace.From(ctx),
		"action", p.Action,
		"resource", p.Resource,
		"outcome", outcome,
		"ms", took.Milliseconds(),
	}
	if err != nil {
		g.log.Warn("authz", append(attrs, "err", err.Error())...)
		return
	}
	g.log.Debug("authz", attrs...)
}
