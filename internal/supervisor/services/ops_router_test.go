// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/recommend/storage"
)

type staticContext struct {
	mc *recommend.ModelContext
}

func (s staticContext) Context() *recommend.ModelContext {
	return s.mc
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOpsRouter_Healthz(t *testing.T) {
	h := NewOpsRouter(OpsConfig{}, staticContext{recommend.EmptyModelContext()}, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Model.Mode != recommend.ModeRuleBased {
		t.Errorf("model.mode = %q, want %q", body.Model.Mode, recommend.ModeRuleBased)
	}
	if body.Model.Regressor {
		t.Error("model.regressor = true for an empty context")
	}
}

type mockArtifactLister struct {
	models []storage.ModelMetadata
	err    error
}

func (m *mockArtifactLister) ListModels(_ context.Context) ([]storage.ModelMetadata, error) {
	return m.models, m.err
}

func TestOpsRouter_HealthzArtifacts(t *testing.T) {
	tests := []struct {
		name      string
		lister    *mockArtifactLister
		wantNames []string
		wantError string
	}{
		{
			name: "lists stored artifacts",
			lister: &mockArtifactLister{models: []storage.ModelMetadata{
				{Name: recommend.ArtifactRegressor, Version: 3},
				{Name: recommend.ArtifactSegmentation, Version: 2},
			}},
			wantNames: []string{recommend.ArtifactRegressor, recommend.ArtifactSegmentation},
		},
		{
			name:      "listing failure is reported, not fatal",
			lister:    &mockArtifactLister{err: errors.New("permission denied")},
			wantError: "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOpsRouter(OpsConfig{Artifacts: tt.lister}, staticContext{recommend.EmptyModelContext()}, nil)
			rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var body HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(body.Artifacts) != len(tt.wantNames) {
				t.Fatalf("len(artifacts) = %d, want %d", len(body.Artifacts), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if body.Artifacts[i].Name != name {
					t.Errorf("artifacts[%d].name = %q, want %q", i, body.Artifacts[i].Name, name)
				}
			}
			if body.ArtifactError != tt.wantError {
				t.Errorf("artifact_error = %q, want %q", body.ArtifactError, tt.wantError)
			}
		})
	}
}

func TestOpsRouter_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
		wantReady  bool
		wantStore  string
	}{
		{"no store", nil, http.StatusOK, true, "none"},
		{"healthy store", &mockPinger{}, http.StatusOK, true, "ok"},
		{"unreachable store", &mockPinger{pingErr: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, false, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOpsRouter(OpsConfig{}, staticContext{recommend.EmptyModelContext()}, tt.store)
			rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ReadyStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Ready != tt.wantReady || body.Store != tt.wantStore {
				t.Errorf("body = %+v, want ready=%v store=%q", body, tt.wantReady, tt.wantStore)
			}
		})
	}
}

func TestOpsRouter_Metrics(t *testing.T) {
	h := NewOpsRouter(OpsConfig{}, staticContext{recommend.EmptyModelContext()}, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing default collectors")
	}
}

func TestOpsRouter_RequestID(t *testing.T) {
	h := NewOpsRouter(OpsConfig{}, staticContext{recommend.EmptyModelContext()}, nil)

	generated := serve(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if id := generated.Header().Get("X-Request-Id"); len(id) != 36 {
		t.Errorf("generated X-Request-Id = %q, want a UUID", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "upstream-42")
	echoed := serve(t, h, req)
	if id := echoed.Header().Get("X-Request-Id"); id != "upstream-42" {
		t.Errorf("X-Request-Id = %q, want upstream-42", id)
	}
}

func TestOpsRouter_CORS(t *testing.T) {
	h := NewOpsRouter(OpsConfig{CORSOrigins: []string{"https://dash.example.com"}}, staticContext{recommend.EmptyModelContext()}, nil)

	allowed := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	allowed.Header.Set("Origin", "https://dash.example.com")
	rec := serve(t, h, allowed)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}

	denied := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	denied.Header.Set("Origin", "https://evil.example.com")
	rec = serve(t, h, denied)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestOpsRouter_RateLimit(t *testing.T) {
	h := NewOpsRouter(OpsConfig{RateLimit: 2}, staticContext{recommend.EmptyModelContext()}, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		codes = append(codes, serve(t, h, req).Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}
