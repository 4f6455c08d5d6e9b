package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/types"
)

// events records the order in which oracle and collaborator calls start
// and finish.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	e.log = append(e.log, s)
	e.mu.Unlock()
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

type fakeOracle struct {
	ev       *events
	decision authz.Decision
	err      error
	delay    time.Duration
	block    chan struct{}
	calls    int
}

func (o *fakeOracle) Check(ctx context.Context, req authz.Request) (authz.Decision, error) {
	o.ev.add("authz:start")
	o.calls++
	if o.block != nil {
		<-o.block
	}
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	o.ev.add("authz:done")
	return o.decision, o.err
}

type fakeIndex struct {
	ev      *events
	calls   map[string]int
	docs    []types.VerificationDashboardIndex
	count   int64
	doc     *types.VerificationDashboardIndex
	err     error
	lastID  string
	lastReq types.VerificationIndexSearchRequest
}

func newFakeIndex(ev *events) *fakeIndex {
	return &fakeIndex{ev: ev, calls: map[string]int{}}
}

func (f *fakeIndex) hit(name string) {
	f.ev.add(name)
	f.calls[name]++
}

func (f *fakeIndex) Search(ctx context.Context, req types.VerificationIndexSearchRequest) ([]types.VerificationDashboardIndex, error) {
	f.hit("search")
	f.lastReq = req
	return f.docs, f.err
}

func (f *fakeIndex) Count(ctx context.Context, req types.VerificationIndexSearchRequest) (int64, error) {
	f.hit("count")
	return f.count, f.err
}

func (f *fakeIndex) CreateIndex(ctx context.Context, doc types.VerificationIndexRequest) error {
	f.hit("create")
	f.lastID = doc.ID
	return f.err
}

func (f *fakeIndex) CreateIndexBulk(ctx context.Context, docs []types.VerificationIndexRequest) error {
	f.hit("bulk")
	return f.err
}

func (f *fakeIndex) FindByID(ctx context.Context, id string) (*types.VerificationDashboardIndex, error) {
	f.hit("find")
	f.lastID = id
	return f.doc, f.err
}

func (f *fakeIndex) DeleteIndex(ctx context.Context, id string) error {
	f.hit("delete")
	f.lastID = id
	return f.err
}

type fakeStream struct {
	ev  *events
	ids []int64
	err error
}

func (f *fakeStream) ProcessVerificationDashboardIndex(ctx context.Context, id int64) error {
	f.ev.add("sync")
	f.ids = append(f.ids, id)
	return f.err
}

type fakeReports struct {
	ev   *events
	url  string
	err  error
	date time.Time
}

func (f *fakeReports) FindOverviewReportByDate(ctx context.Context, date time.Time) (string, error) {
	f.ev.add("report")
	f.date = date
	return f.url, f.err
}
