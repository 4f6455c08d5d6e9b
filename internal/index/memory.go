package index

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/TwigBush/indexgate/internal/types"
)

// MemoryStore is an in-process verification index. It implements
// types.IndexService, types.StreamProcessor and types.ReportService.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string]*types.VerificationDashboardIndex
	reports map[string]string
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]*types.VerificationDashboardIndex),
		reports: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// all must be called with s.mu held.
func (s *MemoryStore) all() []*types.VerificationDashboardIndex {
	out := make([]*types.VerificationDashboardIndex, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

func (s *MemoryStore) Search(ctx context.Context, req types.VerificationIndexSearchRequest) ([]types.VerificationDashboardIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query(s.all(), req), nil
}

func (s *MemoryStore) Count(ctx context.Context, req types.VerificationIndexSearchRequest) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(filter(s.all(), req))), nil
}

// CreateIndex stores doc, replacing any document with the same id.
func (s *MemoryStore) CreateIndex(ctx context.Context, doc types.VerificationIndexRequest) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[doc.ID] = &types.VerificationDashboardIndex{VerificationIndexRequest: doc}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CreateIndexBulk(ctx context.Context, docs []types.VerificationIndexRequest) error {
	if err := checkBatch(docs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[d.ID] = &types.VerificationDashboardIndex{VerificationIndexRequest: d}
	}
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*types.VerificationDashboardIndex, error) {
	if strings.TrimSpace(id) == "" {
		return nil, types.Validation("id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, types.NotFound("verification index %s", id)
	}
	c := clone(d)
	return &c, nil
}

func (s *MemoryStore) DeleteIndex(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return types.NotFound("verification index %s", id)
	}
	delete(s.docs, id)
	return nil
}

// ProcessVerificationDashboardIndex marks every document of the master
// product as processed now.
func (s *MemoryStore) ProcessVerificationDashboardIndex(ctx context.Context, masterProductID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, d := range s.docs {
		if belongsTo(d, masterProductID) {
			t := now
			d.LastProcessedAt = &t
			n++
		}
	}
	if n == 0 {
		return types.NotFound("master product %d", masterProductID)
	}
	return nil
}

func (s *MemoryStore) FindOverviewReportByDate(ctx context.Context, date time.Time) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.reports[dayKey(date)]
	if !ok {
		return "", types.NotFound("overview report for %s", dayKey(date))
	}
	return url, nil
}

// PutOverviewReport records the URL of the report generated for date.
func (s *MemoryStore) PutOverviewReport(date time.Time, url string) {
	s.mu.Lock()
	s.reports[dayKey(date)] = url
	s.mu.Unlock()
}
