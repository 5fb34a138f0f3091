// Package metrics exposes Prometheus instrumentation for the scraping
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunsStarted    prometheus.Counter
	RunsCompleted  prometheus.Counter
	RunsFailed     prometheus.Counter
	JobsFound      prometheus.Counter
	JobsSaved      prometheus.Counter
	ScrapeDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gojobs_scraping_runs_started_total",
			Help: "Total scraping runs started.",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gojobs_scraping_runs_completed_total",
			Help: "Total scraping runs that completed successfully.",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gojobs_scraping_runs_failed_total",
			Help: "Total scraping runs that ended in failure.",
		}),
		JobsFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "gojobs_jobs_found_total",
			Help: "Total job listings returned by the scraping backend.",
		}),
		JobsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "gojobs_jobs_saved_total",
			Help: "Total job rows written by the ingestor.",
		}),
		ScrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gojobs_scrape_duration_seconds",
			Help:    "Wall-clock duration of scrape backend calls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}
