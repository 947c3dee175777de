// Package httptransport wires the public endpoints with the shared
// middleware stack. Business logic stays in the domain services; this layer
// only routes and translates.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/health"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/handler"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/widget"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/middleware/metadata"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/middleware/request"
)

// Config carries the transport level knobs the router needs.
type Config struct {
	BodyLimit int64
	Metadata  *metadata.Config
	Latency   *request.Metrics
}

// NewRouter assembles the middleware stack and mounts every handler.
func NewRouter(
	cfg Config,
	submissions *handler.Handler,
	widgets *widget.Handler,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.Timeout(30 * time.Second))
	r.Use(request.BodyLimit(cfg.BodyLimit))
	r.Use(request.ContentTypeJSON)
	r.Use(metadata.NewMiddleware(cfg.Metadata).Handler)
	if cfg.Latency != nil {
		r.Use(request.LatencyMiddleware(cfg.Latency))
	}

	submissions.Register(r)
	widgets.Register(r)
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
