package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/TwigBush/indexgate/internal/types"
)

// FileStore keeps one JSON file per document under root/docs and one per
// report day under root/reports.
type FileStore struct {
	root string
	mu   sync.RWMutex // process-local concurrency
	now  func() time.Time
}

func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{"docs", "reports"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o700); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", dir, err)
		}
	}
	return &FileStore{root: root, now: func() time.Time { return time.Now().UTC() }}, nil
}

// ---------- helpers ----------

func safeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return types.Validation("id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return types.Validation("id %q is not allowed", id)
	}
	return nil
}

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.root, "docs", id+".json")
}

func (s *FileStore) reportPath(day string) string {
	return filepath.Join(s.root, "reports", day+".json")
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) readDoc(id string) (*types.VerificationDashboardIndex, error) {
	b, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NotFound("verification index %s", id)
		}
		return nil, types.Internal("read %s: %v", id, err)
	}
	var d types.VerificationDashboardIndex
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, types.Internal("decode %s: %v", id, err)
	}
	return &d, nil
}

func (s *FileStore) readAll() ([]*types.VerificationDashboardIndex, error) {
	dir := filepath.Join(s.root, "docs")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, types.Internal("list docs: %v", err)
	}
	out := make([]*types.VerificationDashboardIndex, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		d, err := s.readDoc(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ---------- collaborator implementation ----------

func (s *FileStore) Search(ctx context.Context, req types.VerificationIndexSearchRequest) ([]types.VerificationDashboardIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return query(all, req), nil
}

func (s *FileStore) Count(ctx context.Context, req types.VerificationIndexSearchRequest) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return int64(len(filter(all, req))), nil
}

func (s *FileStore) CreateIndex(ctx context.Context, doc types.VerificationIndexRequest) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	if err := safeID(doc.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

func (s *FileStore) write(doc types.VerificationIndexRequest) error {
	d := types.VerificationDashboardIndex{VerificationIndexRequest: doc}
	if err := writeJSON(s.docPath(doc.ID), d); err != nil {
		return types.Internal("write %s: %v", doc.ID, err)
	}
	return nil
}

// CreateIndexBulk validates the whole batch before writing any of it.
func (s *FileStore) CreateIndexBulk(ctx context.Context, docs []types.VerificationIndexRequest) error {
	if err := checkBatch(docs); err != nil {
		return err
	}
	for _, d := range docs {
		if err := safeID(d.ID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if err := s.write(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) FindByID(ctx context.Context, id string) (*types.VerificationDashboardIndex, error) {
	if err := safeID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readDoc(id)
}

func (s *FileStore) DeleteIndex(ctx context.Context, id string) error {
	if err := safeID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.docPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return types.NotFound("verification index %s", id)
	}
	if err != nil {
		return types.Internal("delete %s: %v", id, err)
	}
	return nil
}

func (s *FileStore) ProcessVerificationDashboardIndex(ctx context.Context, masterProductID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAll()
	if err != nil {
		return err
	}
	now := s.now()
	n := 0
	for _, d := range all {
		if !belongsTo(d, masterProductID) {
			continue
		}
		t := now
		d.LastProcessedAt = &t
		if err := writeJSON(s.docPath(d.ID), d); err != nil {
			return types.Internal("write %s: %v", d.ID, err)
		}
		n++
	}
	if n == 0 {
		return types.NotFound("master product %d", masterProductID)
	}
	return nil
}

func (s *FileStore) FindOverviewReportByDate(ctx context.Context, date time.Time) (string, error) {
	day := dayKey(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(s.reportPath(day))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", types.NotFound("overview report for %s", day)
		}
		return "", types.Internal("read report %s: %v", day, err)
	}
	var r types.OverviewReport
	if err := json.Unmarshal(b, &r); err != nil {
		return "", types.Internal("decode report %s: %v", day, err)
	}
	return r.URL, nil
}

func (s *FileStore) PutOverviewReport(date time.Time, url string) error {
	day := dayKey(date)
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.reportPath(day), types.OverviewReport{Date: date, URL: url})
}
