package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskgate_assessments_total",
		Help: "The total number of risk assessments computed",
	}, []string{"level", "source"})

	OverallScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "riskgate_overall_score",
		Help:    "Distribution of overall weighted risk scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	ValidationRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskgate_validation_rejects_total",
		Help: "Snapshots rejected for out-of-range fields",
	}, []string{"field"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riskgate_latency_seconds",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskgate_stream_clients",
		Help: "Connected live assessment feed clients",
	})
)
