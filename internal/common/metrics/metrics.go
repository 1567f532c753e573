// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ResolutionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_resolution_outcomes_total",
			Help: "Entity resolution results by match method or error kind",
		},
		[]string{"outcome"},
	)

	CatalogSnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_entities",
			Help: "Number of entities in the active catalog snapshot",
		},
		[]string{"entity_type"},
	)

	NewsArticlesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_articles_fetched_total",
			Help: "Articles fetched per news source",
		},
		[]string{"source"},
	)

	NewsSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_source_failures_total",
			Help: "Fetch failures per news source",
		},
		[]string{"source"},
	)
)
