// Package api exposes the prediction engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/metrics"
	"github.com/yourusername/match-predictor/internal/models"
	"github.com/yourusername/match-predictor/internal/predictor"
	"github.com/yourusername/match-predictor/internal/repository"
)

// Handler serves the prediction API.
type Handler struct {
	engine      *predictor.Engine
	predictions repository.PredictionRepository
	validate    *validator.Validate
	logger      *logrus.Logger
}

// NewHandler creates an API handler. The repository may be nil; the list
// endpoints then report the store as unavailable.
func NewHandler(engine *predictor.Engine, predictions repository.PredictionRepository, logger *logrus.Logger) *Handler {
	return &Handler{
		engine:      engine,
		predictions: predictions,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Router builds the HTTP route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/predict", h.instrument("predict", h.handlePredict)).Methods(http.MethodPost)
	r.HandleFunc("/predictions", h.instrument("predictions", h.handleListPredictions)).Methods(http.MethodGet)
	r.HandleFunc("/predictions/{team}", h.instrument("predictions_team", h.handleListTeamPredictions)).Methods(http.MethodGet)
	return r
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var fixture models.Fixture
	if err := json.NewDecoder(r.Body).Decode(&fixture); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := h.validate.Struct(&fixture); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid fixture: %v", err))
		return
	}

	result, err := h.engine.Predict(r.Context(), &fixture)
	if err != nil {
		h.writePredictError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	if h.predictions == nil {
		h.writeError(w, http.StatusServiceUnavailable, "prediction store is not configured")
		return
	}

	predictions, err := h.predictions.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(predictions) == 0 {
		h.writeError(w, http.StatusNotFound, "No predictions found")
		return
	}

	writeJSON(w, http.StatusOK, predictions)
}

func (h *Handler) handleListTeamPredictions(w http.ResponseWriter, r *http.Request) {
	if h.predictions == nil {
		h.writeError(w, http.StatusServiceUnavailable, "prediction store is not configured")
		return
	}

	team := mux.Vars(r)["team"]
	predictions, err := h.predictions.ListByHomeTeam(r.Context(), team)
	if err != nil {
		h.logger.WithError(err).WithField("team", team).Error("Failed to list predictions for team")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(predictions) == 0 {
		h.writeError(w, http.StatusNotFound, "No predictions found")
		return
	}

	writeJSON(w, http.StatusOK, predictions)
}

// writePredictError maps the engine's error taxonomy onto HTTP statuses:
// malformed fixture time is the client's fault, unknown or under-sampled
// teams are not found, a missing corpus is a dependency outage, and
// anything else is an internal error surfaced with its message.
func (h *Handler) writePredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTimeFormat):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrTeamNotFound), errors.Is(err, models.ErrNotEnoughMatches):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrCorpusUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.WithError(err).Error("Prediction failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// instrument wraps a handler with request metrics.
func (h *Handler) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(route, fmt.Sprintf("%dxx", recorder.status/100)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
