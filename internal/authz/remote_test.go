package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemote_SendsRequestAndReadsDecision(t *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/authorize" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"allowed": true}`))
	}))
	defer srv.Close()

	rm, err := NewRemote(RemoteConfig{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewRemote error: %v", err)
	}
	d, err := rm.Check(context.Background(), requestFor("tok-1", PricingList))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("Allowed = false, want true")
	}
	if got.Token != "tok-1" || got.Action != PricingList.Action || got.Resource != PricingList.Resource {
		t.Fatalf("body = %+v", got)
	}
}

func TestRemote_Deny(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"allowed": false}`))
	}))
	defer srv.Close()

	rm, _ := NewRemote(RemoteConfig{BaseURL: srv.URL})
	d, err := rm.Check(context.Background(), requestFor("tok-1", PricingList))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if d.Allowed || d.Reason != "policy_denied" {
		t.Fatalf("decision = %+v", d)
	}
}

func TestRemote_FailuresAreErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"no allowed field": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"reason": "??"}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			rm, _ := NewRemote(RemoteConfig{BaseURL: srv.URL})
			if _, err := rm.Check(context.Background(), requestFor("tok-1", PricingList)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewRemote_RequiresBaseURL(t *testing.T) {
	if _, err := NewRemote(RemoteConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}
