package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scraperRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_runs_total",
			Help: "Total number of scraper runs by final status",
		},
		[]string{"scraper_id", "status"},
	)

	scraperRunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_runs_active",
			Help: "Number of scraper runs currently streaming progress",
		},
	)

	scraperRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Scraper run duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	scraperRecordsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_records_found_total",
			Help: "Records reported by completed scraper runs",
		},
		[]string{"scraper_id"},
	)
)
