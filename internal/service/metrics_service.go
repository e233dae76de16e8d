package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusgrid/grading-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the grading API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	questionsGraded *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	recalcDuration  prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	questionsGraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "questions_graded_total",
		Help: "Questions graded by the automated pipeline",
	}, []string{"type", "needs_manual"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_graded_total",
		Help: "Submissions processed by a grading pass",
	}, []string{"finalized"})

	recalcDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "final_grade_recalc_seconds",
		Help:    "Duration of background final grade recalculations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, questionsGraded, submissions, recalcDuration, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		questionsGraded: questionsGraded,
		submissions:     submissions,
		recalcDuration:  recalcDuration,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordQuestionGraded counts one automated grading outcome.
func (m *MetricsService) RecordQuestionGraded(questionType models.QuestionType, needsManual bool) {
	if m == nil {
		return
	}
	m.questionsGraded.WithLabelValues(string(questionType), fmt.Sprintf("%t", needsManual)).Inc()
}

// RecordSubmissionGraded counts one grading pass over a submission.
func (m *MetricsService) RecordSubmissionGraded(finalized bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(fmt.Sprintf("%t", finalized)).Inc()
}

// ObserveRecalc tracks the duration of a background recalculation.
func (m *MetricsService) ObserveRecalc(duration time.Duration) {
	if m == nil {
		return
	}
	m.recalcDuration.Observe(duration.Seconds())
}

// RecordCacheLookup counts cache hits and misses.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
