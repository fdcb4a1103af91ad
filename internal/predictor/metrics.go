package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks completed predictions by origin
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served by origin",
		},
		[]string{"origin"}, // model, cache
	)

	// PredictionErrorsTotal tracks prediction failures by kind
	PredictionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of failed prediction requests by kind",
		},
		[]string{"kind"}, // invalid_time, not_found, corpus, model
	)

	// PredictionLatency tracks end-to-end prediction latency
	PredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
