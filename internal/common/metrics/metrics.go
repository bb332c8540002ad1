package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "venue_workers"

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of job processing in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	StaffScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "staff_weighted_score",
			Help:      "Distribution of weighted staff performance scores",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"role"},
	)

	StaffingRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staffing_recommendations_total",
			Help:      "Staffing recommendations by revenue band and band source",
		},
		[]string{"band", "source"},
	)

	BandCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "band_cache_lookups_total",
			Help:      "Revenue band cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode counts as completed.
func ObserveJob(taskType string, started time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
