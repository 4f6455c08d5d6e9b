package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TwigBush/indexgate/internal/trace"
	"github.com/TwigBush/indexgate/internal/types"
	"github.com/TwigBush/indexgate/internal/version"
)

// Client talks to the remote verification index service. It implements
// types.IndexService, types.StreamProcessor and types.ReportService.
type Client struct {
	base   string
	client *http.Client
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("downstream: base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("downstream: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), client: hc}, nil
}

type countResponse struct {
	TotalCount int64 `json:"total_count"`
}

type reportResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends body as JSON and decodes a 2xx response into out when out is
// non-nil. Non-2xx statuses become *types.Failure.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return types.Internal("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return types.Internal("create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := trace.From(ctx); id != "" {
		req.Header.Set(trace.Header, id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Internal("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return failure(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.Internal("decode %s %s: %v", method, path, err)
	}
	return nil
}

func failure(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return types.NotFound("%s", msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return types.Validation("%s", msg)
	case http.StatusConflict:
		return types.Conflict("%s", msg)
	}
	return types.Internal("status %d: %s", resp.StatusCode, msg)
}

func (c *Client) Search(ctx context.Context, req types.VerificationIndexSearchRequest) ([]types.VerificationDashboardIndex, error) {
	var out []types.VerificationDashboardIndex
	if err := c.do(ctx, http.MethodPost, "/v1/verification/search", req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.VerificationDashboardIndex{}
	}
	return out, nil
}

func (c *Client) Count(ctx context.Context, req types.VerificationIndexSearchRequest) (int64, error) {
	var out countResponse
	if err := c.do(ctx, http.MethodPost, "/v1/verification/count", req, &out); err != nil {
		return 0, err
	}
	return out.TotalCount, nil
}

func (c *Client) CreateIndex(ctx context.Context, doc types.VerificationIndexRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/verification/index", doc, nil)
}

func (c *Client) CreateIndexBulk(ctx context.Context, docs []types.VerificationIndexRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/verification/index/bulk", docs, nil)
}

func (c *Client) FindByID(ctx context.Context, id string) (*types.VerificationDashboardIndex, error) {
	var out types.VerificationDashboardIndex
	if err := c.do(ctx, http.MethodGet, "/v1/verification/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteIndex(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/verification/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ProcessVerificationDashboardIndex(ctx context.Context, masterProductID int64) error {
	path := "/v1/verification/master/" + strconv.FormatInt(masterProductID, 10) + "/sync"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) FindOverviewReportByDate(ctx context.Context, date time.Time) (string, error) {
	var out reportResponse
	q := url.Values{"date": {date.Format("2006-01-02")}}
	if err := c.do(ctx, http.MethodGet, "/v1/reports/overview?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
