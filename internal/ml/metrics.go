package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModelLoadsTotal tracks artifact resolution outcomes
	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model load attempts by outcome",
		},
		[]string{"outcome"}, // artifact, trained, invalid, missing
	)

	// TrainingJobsTotal tracks fallback training jobs
	TrainingJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_jobs_total",
			Help: "Total number of on-demand training jobs",
		},
		[]string{"status"}, // success, failure
	)

	// ModelAccuracy exposes the held-out accuracy of the resident model
	ModelAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_accuracy",
			Help: "Held-out accuracy of the loaded model",
		},
		[]string{"model_id"},
	)

	// ModelPrecision exposes the held-out precision of the resident model
	ModelPrecision = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_precision",
			Help: "Held-out precision of the loaded model",
		},
		[]string{"model_id"},
	)
)
