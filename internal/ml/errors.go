// Package ml provides the in-process match outcome classifier and its
// artifact lifecycle.
package ml

import "errors"

var (
	// ErrNoArtifact indicates no trained artifact exists at any candidate
	// location. Callers fall back to on-demand training.
	ErrNoArtifact = errors.New("no model artifact found")

	// ErrInvalidArtifact indicates an artifact file exists but is
	// structurally unusable (missing forest, feature list, or metrics).
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrTrainingFailed indicates fallback training could not produce a model
	ErrTrainingFailed = errors.New("model training failed")

	// ErrFeatureMismatch indicates an input vector does not match the
	// model's expected feature count
	ErrFeatureMismatch = errors.New("feature vector does not match model features")
)
