package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/report"
	"github.com/wonny/rebalancer/internal/session"
	"github.com/wonny/rebalancer/pkg/logger"
)

// SessionHandler handles the in-session snapshot endpoints
// ⭐ SSOT: 세션 API 핸들러는 이 구조체에서만
type SessionHandler struct {
	manager *session.Manager
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, log *logger.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, logger: log}
}

func (h *SessionHandler) currency() string {
	return h.manager.Catalog().Meta.Currency
}

// Create starts a session with catalog defaults
// POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respondJSON(w, http.StatusCreated, NewSessionResponse(s, h.currency()))
}

// Get returns the session inputs and the plan they produce
// GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewSessionResponse(s, h.currency()))
}

// Delete ends a session
// DELETE /api/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValueRequest sets one current-value field
type ValueRequest struct {
	Value Input `json:"value"`
}

// SetValue replaces the current value of one asset
// PUT /api/sessions/{id}/values/{asset}
func (h *SessionHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.update(w, r, func(s *session.Session, asset rebalance.Asset) error {
		return s.SetValue(asset, string(req.Value))
	})
}

// PercentRequest sets one target-percentage field
type PercentRequest struct {
	Percent Input `json:"percent"`
}

// SetAllocation replaces the target percentage of one asset
// PUT /api/sessions/{id}/allocation/{asset}
func (h *SessionHandler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var req PercentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.update(w, r, func(s *session.Session, asset rebalance.Asset) error {
		return s.SetPercent(asset, string(req.Percent))
	})
}

// StepRequest moves a value by whole value steps
type StepRequest struct {
	Steps int `json:"steps"`
}

// Step adjusts the current value of one asset by the catalog value step
// POST /api/sessions/{id}/values/{asset}/step
func (h *SessionHandler) Step(w http.ResponseWriter, r *http.Request) {
	var req StepRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.update(w, r, func(s *session.Session, asset rebalance.Asset) error {
		return s.Step(asset, req.Steps)
	})
}

// Reset restores catalog defaults
// POST /api/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewSessionResponse(s, h.currency()))
}

// Report renders the current plan as markdown or CSV
// GET /api/sessions/{id}/report?format=md|csv
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	plan := s.Evaluate()

	switch r.URL.Query().Get("format") {
	case "", "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Markdown(plan, report.Options{Currency: h.currency()})))
	case "csv":
		if plan.Skipped() {
			respondJSON(w, http.StatusConflict, NewPlanResponse(plan, h.currency()))
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="rebalance.csv"`)
		if err := report.WriteCSV(w, plan.Result); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV report")
		}
	default:
		respondError(w, http.StatusBadRequest, "format must be md or csv")
	}
}

func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request, fn func(*session.Session, rebalance.Asset) error) {
	vars := mux.Vars(r)
	asset := rebalance.Asset(vars["asset"])

	s, err := h.manager.Update(r.Context(), vars["id"], func(s *session.Session) error {
		return fn(s, asset)
	})
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewSessionResponse(s, h.currency()))
}

func (h *SessionHandler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrUnknownAsset):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("Session operation failed")
		respondError(w, http.StatusInternalServerError, "Session operation failed")
	}
}
