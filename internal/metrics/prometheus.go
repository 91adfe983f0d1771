package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandaudit_analyses_total",
			Help: "Total analysis requests by outcome",
		},
		[]string{"status"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brandaudit_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
		},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brandaudit_provider_latency_seconds",
			Help:    "LLM provider call latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "operation"},
	)

	ProviderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandaudit_provider_failures_total",
			Help: "Failed LLM provider calls",
		},
		[]string{"provider", "operation"},
	)

	CollectorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandaudit_collector_failures_total",
			Help: "External signal collectors that fell back to defaults",
		},
		[]string{"collector"},
	)

	ConsensusConfidence = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandaudit_consensus_confidence_total",
			Help: "Consensus confidence levels produced",
		},
		[]string{"level"},
	)

	ReportStoreFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "brandaudit_report_store_failures_total",
			Help: "Reports that could not be persisted",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(ProviderFailures)
	prometheus.MustRegister(CollectorFailures)
	prometheus.MustRegister(ConsensusConfidence)
	prometheus.MustRegister(ReportStoreFailures)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
