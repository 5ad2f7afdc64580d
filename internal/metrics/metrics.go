// Package metrics exposes surf check outcomes and API quota as Prometheus collectors
package metrics

import (
	"context"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/models"
	"github.com/ngmaloney/surf-lamp/internal/stormglass"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	evaluations   *prometheus.CounterVec
	lastRating    prometheus.Gauge
	lastRun       prometheus.Gauge
	duration      prometheus.Histogram
	requestCount  prometheus.Gauge
	dailyQuota    prometheus.Gauge
	pullsRecorded prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surf_evaluations_total",
			Help: "Completed surf checks by resulting rating.",
		}, []string{"rating"}),
		lastRating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surf_last_rating",
			Help: "Rating of the most recent check (-1 error, 0 poor, 1 marginal, 2 good).",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surf_last_evaluation_timestamp_seconds",
			Help: "Unix time the most recent check finished.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "surf_evaluation_duration_seconds",
			Help:    "Time spent fetching and rating a forecast window.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		requestCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surf_api_request_count",
			Help: "Stormglass requests used today, as reported by the API.",
		}),
		dailyQuota: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surf_api_daily_quota",
			Help: "Stormglass daily request quota.",
		}),
		pullsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surf_pulls_total",
			Help: "Raw forecast responses received.",
		}),
	}

	reg.MustRegister(m.evaluations, m.lastRating, m.lastRun, m.duration, m.requestCount, m.dailyQuota, m.pullsRecorded)
	return m
}

// ObserveEvaluation records the outcome of one check
func (m *Metrics) ObserveEvaluation(rating models.Rating, took time.Duration) {
	m.evaluations.WithLabelValues(rating.String()).Inc()
	m.lastRating.Set(float64(rating))
	m.lastRun.SetToCurrentTime()
	m.duration.Observe(took.Seconds())
}

// ObservePull records quota usage reported with a raw response
func (m *Metrics) ObservePull(p models.Pull) {
	m.pullsRecorded.Inc()
	m.requestCount.Set(float64(p.RequestCount))
	m.dailyQuota.Set(float64(p.DailyQuota))
}

// WrapRecorder observes every pull before handing it to next. A nil next only observes.
func (m *Metrics) WrapRecorder(next stormglass.PullRecorder) stormglass.PullRecorder {
	return &observingRecorder{metrics: m, next: next}
}

type observingRecorder struct {
	metrics *Metrics
	next    stormglass.PullRecorder
}

func (r *observingRecorder) RecordPull(ctx context.Context, p models.Pull) error {
	r.metrics.ObservePull(p)
	if r.next == nil {
		return nil
	}
	return r.next.RecordPull(ctx, p)
}
