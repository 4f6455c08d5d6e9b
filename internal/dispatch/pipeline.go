package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/metrics"
	"github.com/TwigBush/indexgate/internal/trace"
)

// Outcome is the terminal state of one request:
//
//	Received -> Authorizing -> Forbidden | Unauthenticated | AuthorizationUnavailable
//	                        -> Authorized -> Dispatching -> Succeeded | Failed
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
	OutcomeForbidden
	OutcomeUnauthenticated
	OutcomeAuthorizationUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeAuthorizationUnavailable:
		return "authorization_unavailable"
	}
	return "unknown"
}

// Pipeline authorizes a call against its declared permission and only then
// dispatches it. Both steps run on the caller's goroutine, in that order.
type Pipeline struct {
	table      Table
	gate       *authz.Gate
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewPipeline(table Table, gate *authz.Gate, d *Dispatcher, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{table: table, gate: gate, dispatcher: d, log: log}
}

func (p *Pipeline) Table() Table { return p.table }

func (p *Pipeline) Run(ctx context.Context, credential string, c Call) (Result, Outcome, error) {
	op, ok := p.table.Lookup(c.Kind)
	if !ok {
		return Result{}, OutcomeFailed, ErrUnknownOperation
	}

	if op.Guarded() {
		if _, err := p.gate.Check(ctx, credential, *op.Permission); err != nil {
			out := gateOutcome(err)
			metrics.ObserveDispatch(string(c.Kind), out.String(), 0)
			return Result{}, out, err
		}
	}

	start := time.Now()
	res, err := p.dispatcher.Invoke(ctx, c)
	took := time.Since(start)

	out := OutcomeSucceeded
	if err != nil {
		out = OutcomeFailed
		p.log.Warn("dispatch", "trace", trace.From(ctx), "op", c.Kind, "err", err.Error())
	}
	metrics.ObserveDispatch(string(c.Kind), out.String(), took)
	return res, out, err
}

func gateOutcome(err error) Outcome {
	switch {
	case errors.Is(err, authz.ErrMissingCredential):
		return OutcomeUnauthenticated
	case errors.Is(err, authz.ErrForbidden):
		return OutcomeForbidden
	default:
		return OutcomeAuthorizationUnavailable
	}
}
