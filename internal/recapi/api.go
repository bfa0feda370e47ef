// Package recapi exposes the consultation endpoint over HTTP.
package recapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/andessalud/triaje/internal/triage"
)

// RecommendService defines the business operation recapi needs.
type RecommendService interface {
	Recommend(ctx context.Context, in triage.PatientInput, useIA *bool) *triage.Result
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	svc     RecommendService
	metrics *triage.Metrics
}

// New creates a new API handler. metrics may be nil.
func New(logger log.Logger, svc RecommendService, metrics *triage.Metrics) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("recommend service is required"))
	}
	return &API{
		logger:  logger,
		svc:     svc,
		metrics: metrics,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Post("/recomendar", a.handleRecomendar)
}

func (a *API) countRequest(result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.RequestsTotal.WithLabelValues(result).Inc()
}
