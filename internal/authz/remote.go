package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TwigBush/indexgate/internal/trace"
	"github.com/TwigBush/indexgate/internal/version"
)

// Remote asks an HTTP permission service for each decision.
type Remote struct {
	endpoint string
	client   *http.Client
}

type RemoteConfig struct {
	BaseURL    string
	Path       string        // default /v1/authorize
	Timeout    time.Duration // transport timeout, the Gate applies its own
	HTTPClient *http.Client  // optional
}

type remoteRequest struct {
	Token    string `json:"token"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
}

type remoteResponse struct {
	Allowed *bool  `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote authorizer: base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("remote authorizer: %w", err)
	}
	path := cfg.Path
	if path == "" {
		path = "/v1/authorize"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Remote{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + path,
		client:   hc,
	}, nil
}

func (r *Remote) Check(ctx context.Context, req Request) (Decision, error) {
	body, err := json.Marshal(remoteRequest{
		Token:    req.Credential,
		Action:   req.Action,
		Resource: req.Resource,
	})
	if err != nil {
		return Decision{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("authorize_request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if id := trace.From(ctx); id != "" {
		httpReq.Header.Set(trace.Header, id)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Decision{}, fmt.Errorf("authorize_call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Decision{}, fmt.Errorf("authorize_status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Decision{}, fmt.Errorf("authorize_decode: %w", err)
	}
	if out.Allowed == nil {
		return Decision{}, errors.New("authorize_decode: response has no allowed field")
	}
	if !*out.Allowed {
		reason := out.Reason
		if reason == "" {
			reason = "policy_denied"
		}
		return Decision{Allowed: false, Reason: reason}, nil
	}
	return Decision{Allowed: true}, nil
}
