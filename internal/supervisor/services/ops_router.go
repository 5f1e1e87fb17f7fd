// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package services

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/thrive/internal/logging"
	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/recommend/storage"
)

// ContextProvider exposes the engine's current model context.
type ContextProvider interface {
	Context() *recommend.ModelContext
}

// ArtifactLister lists the model artifacts on disk. *storage.Store
// implements it.
type ArtifactLister interface {
	ListModels(ctx context.Context) ([]storage.ModelMetadata, error)
}

// OpsConfig configures the ops router.
type OpsConfig struct {
	// Artifacts, when set, adds the latest artifact of each name on disk
	// to /healthz.
	Artifacts ArtifactLister

	// CORSOrigins lists allowed origins. Empty disables cross-origin access.
	CORSOrigins []string

	// RateLimit is requests per minute per client IP. 0 disables limiting.
	RateLimit int
}

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status        string                   `json:"status"`
	UptimeSeconds int64                    `json:"uptime_seconds"`
	Model         recommend.ContextSummary `json:"model"`
	Artifacts     []storage.ModelMetadata  `json:"artifacts,omitempty"`
	ArtifactError string                   `json:"artifact_error,omitempty"`
}

// ReadyStatus is the /readyz response body.
type ReadyStatus struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// NewOpsRouter builds the operational HTTP surface:
//
//	GET /healthz  model context summary and stored artifacts, always 200
//	              while the process is up
//	GET /readyz   200 when the store answers a ping, 503 otherwise
//	GET /metrics  Prometheus exposition
//
// store may be nil, in which case /readyz reports "none" and is ready.
func NewOpsRouter(cfg OpsConfig, engine ContextProvider, store Pinger) http.Handler {
	started := time.Now()
	r := chi.NewRouter()

	r.Use(requestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	// go-chi/cors allows every origin when the list is empty, so the
	// middleware is only installed for an explicit list.
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         86400,
		}))
	}
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := HealthStatus{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(started).Seconds()),
			Model:         engine.Context().Summary(),
		}
		if cfg.Artifacts != nil {
			artifacts, err := cfg.Artifacts.ListModels(req.Context())
			if err != nil {
				logging.Ctx(req.Context()).Warn().Err(err).Msg("failed to list model artifacts")
				status.ArtifactError = err.Error()
			}
			status.Artifacts = artifacts
		}
		respondJSON(w, req, http.StatusOK, status)
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			respondJSON(w, req, http.StatusOK, ReadyStatus{Ready: true, Store: "none"})
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logging.Ctx(req.Context()).Warn().Err(err).Msg("readiness check failed")
			respondJSON(w, req, http.StatusServiceUnavailable, ReadyStatus{Store: "unreachable", Error: err.Error()})
			return
		}
		respondJSON(w, req, http.StatusOK, ReadyStatus{Ready: true, Store: "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestIDWithLogging reuses an incoming X-Request-ID or generates one,
// echoes it on the response, and puts it in the logging context.
func requestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(chimiddleware.RequestIDHeader)
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set(chimiddleware.RequestIDHeader, requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}
