package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ngmaloney/surf-lamp/internal/checker"
	"github.com/ngmaloney/surf-lamp/internal/database"
	"github.com/ngmaloney/surf-lamp/internal/forecast"
	"github.com/ngmaloney/surf-lamp/internal/indicator"
	"github.com/ngmaloney/surf-lamp/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// checks is the part of checker.Service the API drives
type checks interface {
	Run(ctx context.Context) (forecast.Report, error)
	Halt(ctx context.Context) error
	Last() (forecast.Report, bool)
}

// history is the part of database.Store the API reads
type history interface {
	LatestEvaluation(ctx context.Context) (*models.Evaluation, error)
	ListEvaluations(ctx context.Context, limit int) ([]models.Evaluation, error)
	ListPulls(ctx context.Context, limit int) ([]models.Pull, error)
}

// RouteManager handles the status API routes
type RouteManager struct {
	checks   checks
	history  history
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	Router   *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(c checks, h history, gatherer prometheus.Gatherer, logger *zap.Logger) *RouteManager {
	return &RouteManager{
		checks:   c,
		history:  h,
		gatherer: gatherer,
		logger:   logger.Named("api"),
		Router:   mux.NewRouter(),
	}
}

// Setup configures all API routes
func (rm *RouteManager) Setup() {
	r := rm.Router

	r.HandleFunc("/healthz", rm.healthHandler).Methods("GET")
	r.HandleFunc("/status", rm.statusHandler).Methods("GET")
	r.HandleFunc("/evaluations", rm.evaluationsHandler).Methods("GET")
	r.HandleFunc("/pulls", rm.pullsHandler).Methods("GET")
	r.HandleFunc("/run", rm.runHandler).Methods("POST")
	r.HandleFunc("/halt", rm.haltHandler).Methods("POST")
	r.Handle("/metrics", promhttp.HandlerFor(rm.gatherer, promhttp.HandlerOpts{})).Methods("GET")
}

// statusResponse describes the lamps' current reason for being lit
type statusResponse struct {
	Rating  models.Rating `json:"rating"`
	Signal  string        `json:"signal"`
	Start   time.Time     `json:"start"`
	BestAt  *time.Time    `json:"best_at,omitempty"`
	Slots   int           `json:"slots"`
	Error   string        `json:"error,omitempty"`
	Updated time.Time     `json:"updated"`
}

// pullResponse summarises a raw API response without its body
type pullResponse struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	FetchedAt    time.Time `json:"fetched_at"`
	Bytes        int       `json:"bytes"`
	Cost         int       `json:"cost"`
	RequestCount int       `json:"request_count"`
	DailyQuota   int       `json:"daily_quota"`
}

func statusFromEvaluation(e models.Evaluation) statusResponse {
	s := statusResponse{
		Rating:  e.Rating,
		Signal:  indicator.SignalFor(e.Rating).String(),
		Start:   e.Start,
		Slots:   e.Slots,
		Error:   e.Error,
		Updated: e.CreatedAt,
	}
	if !e.BestAt.IsZero() {
		bestAt := e.BestAt
		s.BestAt = &bestAt
	}
	return s
}

func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusHandler reports the last check run by this process, falling back to stored history
func (rm *RouteManager) statusHandler(w http.ResponseWriter, r *http.Request) {
	if report, ok := rm.checks.Last(); ok {
		writeJSON(w, http.StatusOK, statusFromEvaluation(report.Evaluation()))
		return
	}

	latest, err := rm.history.LatestEvaluation(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no surf check has run yet")
		return
	}
	if err != nil {
		rm.logger.Error("failed to load latest evaluation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load status")
		return
	}
	writeJSON(w, http.StatusOK, statusFromEvaluation(*latest))
}

// parseLimit reads the limit query parameter, defaulting to 20
func parseLimit(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 20, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 500 {
		return 0, false
	}
	return n, true
}

func (rm *RouteManager) evaluationsHandler(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}

	evals, err := rm.history.ListEvaluations(r.Context(), limit)
	if err != nil {
		rm.logger.Error("failed to list evaluations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}
	if evals == nil {
		evals = []models.Evaluation{}
	}
	writeJSON(w, http.StatusOK, evals)
}

// pullsHandler lists recent Stormglass responses with their quota accounting
func (rm *RouteManager) pullsHandler(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}

	pulls, err := rm.history.ListPulls(r.Context(), limit)
	if err != nil {
		rm.logger.Error("failed to list pulls", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list pulls")
		return
	}

	resp := make([]pullResponse, 0, len(pulls))
	for _, p := range pulls {
		resp = append(resp, pullResponse{
			ID:           p.ID.String(),
			Start:        p.Start,
			End:          p.End,
			FetchedAt:    p.FetchedAt,
			Bytes:        len(p.Body),
			Cost:         p.Cost,
			RequestCount: p.RequestCount,
			DailyQuota:   p.DailyQuota,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rm *RouteManager) runHandler(w http.ResponseWriter, r *http.Request) {
	report, err := rm.checks.Run(r.Context())
	if errors.Is(err, checker.ErrBusy) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		rm.logger.Error("manual surf check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusFromEvaluation(report.Evaluation()))
}

func (rm *RouteManager) haltHandler(w http.ResponseWriter, r *http.Request) {
	if err := rm.checks.Halt(r.Context()); err != nil {
		rm.logger.Error("failed to halt lamps", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "halted"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
