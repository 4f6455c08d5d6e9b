package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TwigBush/indexgate/internal/trace"
	"github.com/TwigBush/indexgate/internal/types"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrBadPayload       = errors.New("payload does not match operation")
	ErrNoCollaborator   = errors.New("no collaborator configured for operation")
)

// Services are the downstream collaborators, one method per operation.
type Services struct {
	Index   types.IndexService
	Stream  types.StreamProcessor
	Reports types.ReportService
}

// Call is one operation and its payload:
//
//	search, count                 types.VerificationIndexSearchRequest
//	create_index                  types.VerificationIndexRequest
//	create_index_bulk             []types.VerificationIndexRequest
//	find_by_id, delete_index      string (document id)
//	sync                          int64 (master product id)
//	find_overview_report_by_date  time.Time
type Call struct {
	Kind    Kind
	Payload any
}

// Result carries the collaborator's value as returned: a slice, a count,
// a document, a URL, or nil for operations without a value.
type Result struct {
	Value any
}

type Dispatcher struct {
	svc Services
	log *slog.Logger
}

func NewDispatcher(svc Services, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{svc: svc, log: log}
}

// Invoke runs exactly one collaborator call. Collaborator errors are
// returned unchanged.
func (d *Dispatcher) Invoke(ctx context.Context, c Call) (Result, error) {
	switch c.Kind {
	case KindSearch:
		req, ok := c.Payload.(types.VerificationIndexSearchRequest)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		docs, err := d.svc.Index.Search(ctx, req)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: docs}, nil

	case KindCount:
		req, ok := c.Payload.(types.VerificationIndexSearchRequest)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		n, err := d.svc.Index.Count(ctx, req)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: n}, nil

	case KindCreateIndex:
		doc, ok := c.Payload.(types.VerificationIndexRequest)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		return Result{}, d.svc.Index.CreateIndex(ctx, doc)

	case KindCreateIndexBulk:
		docs, ok := c.Payload.([]types.VerificationIndexRequest)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		return Result{}, d.svc.Index.CreateIndexBulk(ctx, docs)

	case KindFindByID:
		id, ok := c.Payload.(string)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		doc, err := d.svc.Index.FindByID(ctx, id)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: doc}, nil

	case KindDeleteIndex:
		id, ok := c.Payload.(string)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Index == nil {
			return Result{}, noCollaborator(c)
		}
		return Result{}, d.svc.Index.DeleteIndex(ctx, id)

	case KindSync:
		id, ok := c.Payload.(int64)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Stream == nil {
			return Result{}, noCollaborator(c)
		}
		d.log.Info("sync verification index", "trace", trace.From(ctx), "master_product_id", id)
		return Result{}, d.svc.Stream.ProcessVerificationDashboardIndex(ctx, id)

	case KindFindOverviewReportByDate:
		date, ok := c.Payload.(time.Time)
		if !ok {
			return Result{}, badPayload(c)
		}
		if d.svc.Reports == nil {
			return Result{}, noCollaborator(c)
		}
		url, err := d.svc.Reports.FindOverviewReportByDate(ctx, date)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: url}, nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, c.Kind)
}

func badPayload(c Call) error {
	return fmt.Errorf("%w: %s got %T", ErrBadPayload, c.Kind, c.Payload)
}

func noCollaborator(c Call) error {
	return fmt.Errorf("%w: %s", ErrNoCollaborator, c.Kind)
}
