// Package api exposes the SOS pipeline over HTTP. The browser front end
// triggers a cycle, deposits the asynchronous geolocation result and polls
// the cycle status through these endpoints.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
	"github.com/dhivyapriya/sos-guardian/internal/repository/contacts"
	"github.com/dhivyapriya/sos-guardian/internal/service/orchestrator"
)

// Handler serves the SOS endpoints.
type Handler struct {
	orchestrator *orchestrator.Orchestrator
	contacts     contacts.Repository
}

// NewHandler creates the handler around the orchestrator and contact list.
func NewHandler(o *orchestrator.Orchestrator, repo contacts.Repository) *Handler {
	return &Handler{
		orchestrator: o,
		contacts:     repo,
	}
}

// triggerRequest is the body of POST /api/v1/sos.
type triggerRequest struct {
	// Source is "button", "voice" or "sound"; empty defaults to "button".
	Source string `json:"source"`
	// Keyword is the detected phrase for voice triggers.
	Keyword string `json:"keyword,omitempty"`
	// Level is the detected loudness for sound triggers.
	Level float64 `json:"level,omitempty"`
}

// triggerResponse returns the correlation key the browser must deposit the
// location result under.
type triggerResponse struct {
	Key     string `json:"key"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// locationRequest is the body of POST /api/v1/sos/location/{key}. Either the
// coordinates or the error fields are set, mirroring the browser geolocation
// callback pair.
type locationRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AccuracyM    float64 `json:"accuracy_m,omitempty"`
	ErrorCode    int     `json:"error_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// cycleResponse is the serialized view of an alert cycle.
type cycleResponse struct {
	Busy           bool     `json:"busy"`
	Key            string   `json:"key,omitempty"`
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	Detail         string   `json:"detail,omitempty"`
	LocationSource string   `json:"location_source,omitempty"`
	Recipients     []string `json:"recipients,omitempty"`
}

// Trigger handles POST /api/v1/sos.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest

	// An empty body is a plain button press.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	if req.Source == "" {
		req.Source = string(sos.SourceButton)
	}

	trigger := sos.Trigger{
		Source:  sos.TriggerSource(req.Source),
		Keyword: req.Keyword,
		Level:   req.Level,
	}

	key, err := h.orchestrator.Trigger(r.Context(), trigger)

	switch {
	case errors.Is(err, orchestrator.ErrBusy):
		writeError(w, http.StatusConflict, "an SOS cycle is already in progress")

		return
	case errors.Is(err, orchestrator.ErrInvalidTrigger):
		writeError(w, http.StatusBadRequest, "invalid trigger source")

		return
	case err != nil:
		logger.ErrorKV(r.Context(), "Trigger failed", "error", err)
		writeError(w, http.StatusInternalServerError, "trigger failed")

		return
	}

	writeJSON(w, http.StatusAccepted, triggerResponse{
		Key:     key,
		Status:  string(sos.StatusAwaitingLocation),
		Message: sos.StatusAwaitingLocation.Message(),
	})
}

// DeliverLocation handles POST /api/v1/sos/location/{key}.
func (h *Handler) DeliverLocation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	sample := sos.LocationSample{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AccuracyM: req.AccuracyM,
		Source:    "Browser Geolocation",
	}

	if req.ErrorCode != 0 || req.ErrorMessage != "" {
		sample.Err = &sos.LocationError{
			Kind:    sos.ClassifyLocationError(req.ErrorCode),
			Message: req.ErrorMessage,
			Source:  "Browser Geolocation Error",
		}
	}

	cycle, err := h.orchestrator.DeliverLocation(r.Context(), key, sample)
	if errors.Is(err, orchestrator.ErrUnknownKey) {
		writeError(w, http.StatusNotFound, "no pending location request for this key")

		return
	}

	if err != nil {
		logger.ErrorKV(r.Context(), "Location delivery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "location delivery failed")

		return
	}

	writeJSON(w, http.StatusOK, toCycleResponse(false, cycle))
}

// Status handles GET /api/v1/sos/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	busy, cycle := h.orchestrator.Snapshot()

	if cycle == nil {
		writeJSON(w, http.StatusOK, cycleResponse{
			Busy:    busy,
			Status:  string(sos.StatusIdle),
			Message: sos.StatusIdle.Message(),
		})

		return
	}

	writeJSON(w, http.StatusOK, toCycleResponse(busy, cycle))
}

// Reset handles POST /api/v1/sos/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Reset(r.Context()); err != nil {
		writeError(w, http.StatusConflict, "an SOS cycle is still in progress")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContacts handles GET /api/v1/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.List(r.Context())
	if err != nil {
		logger.ErrorKV(r.Context(), "Failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list contacts")

		return
	}

	if list == nil {
		list = []sos.Contact{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"contacts": list})
}

// AddContact handles POST /api/v1/contacts.
func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	var contact sos.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	if err := h.contacts.Add(r.Context(), contact); err != nil {
		if errors.Is(err, contacts.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "contact name is required")

			return
		}

		logger.ErrorKV(r.Context(), "Failed to add contact", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add contact")

		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toCycleResponse(busy bool, cycle *sos.AlertCycle) cycleResponse {
	return cycleResponse{
		Busy:           busy,
		Key:            cycle.Key,
		Status:         string(cycle.Status),
		Message:        cycle.Status.Message(),
		Detail:         cycle.StatusDetail,
		LocationSource: cycle.LocationSource,
		Recipients:     cycle.Recipients,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // The response is already committed at this point.
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
