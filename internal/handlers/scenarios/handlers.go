package scenarios

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	apphttp "finplan/internal/http"
	"finplan/internal/models"
	"finplan/internal/services/metrics"
	svc "finplan/internal/services/scenarios"
	"finplan/internal/services/storage"
)

const maxBodyBytes = 64 << 10

var (
	manager    *svc.Manager
	metricsSvc *metrics.Service
)

// Initialize sets up the scenarios package with required dependencies
func Initialize(m *svc.Manager, ms *metrics.Service) {
	manager = m
	metricsSvc = ms
}

// RegisterRoutes registers all scenario routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/scenarios", handleList)
	r.Post("/api/scenarios", handleCreate)
	r.Get("/api/scenarios/{id}", handleGet)
	r.Put("/api/scenarios/{id}", handleUpdate)
	r.Delete("/api/scenarios/{id}", handleDelete)
	r.Post("/api/scenarios/{id}/restore", handleRestore)
	r.Get("/api/scenarios/{id}/compare/{baseline}", handleCompare)
}

// SaveRequest is the body for creating or updating a scenario
type SaveRequest struct {
	Name     string              `json:"name"`
	Tool     models.CalculatorID `json:"tool"`
	Params   models.Params       `json:"params"`
	Advanced bool                `json:"advanced"`
}

// Detail is a scenario with its recomputed result
type Detail struct {
	models.Scenario
	Params models.Params             `json:"params"`
	Result *models.CalculationResult `json:"result"`
}

// writeError maps service errors to status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		apphttp.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, svc.ErrUnknownTool), errors.Is(err, svc.ErrEmptyName):
		apphttp.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrLocked):
		apphttp.ErrorResponse(w, err.Error(), http.StatusLocked)
	default:
		log.Printf("Error handling scenario request: %v", err)
		apphttp.ErrorResponse(w, "scenario storage error", http.StatusInternalServerError)
	}
}

func detail(s *models.Scenario) (*Detail, error) {
	params, err := svc.Params(s)
	if err != nil {
		return nil, err
	}
	result, err := svc.Calculate(s)
	if err != nil {
		return nil, err
	}
	return &Detail{Scenario: *s, Params: params, Result: result}, nil
}

func handleList(w http.ResponseWriter, r *http.Request) {
	list, err := manager.List(models.CalculatorID(r.URL.Query().Get("tool")))
	if err != nil {
		writeError(w, err)
		return
	}
	apphttp.WriteJSON(w, list, http.StatusOK)
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := apphttp.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		apphttp.ErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s, err := manager.Create(req.Name, req.Tool, req.Params, req.Advanced)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Saved scenario %q (%s)", s.Name, s.Tool)
	apphttp.WriteJSON(w, s, http.StatusCreated)
}

func handleGet(w http.ResponseWriter, r *http.Request) {
	s, err := manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := detail(s)
	if err != nil {
		writeError(w, err)
		return
	}
	apphttp.WriteJSON(w, d, http.StatusOK)
}

func handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := apphttp.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		apphttp.ErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s, err := manager.Update(chi.URLParam(r, "id"), req.Name, req.Params, req.Advanced)
	if err != nil {
		writeError(w, err)
		return
	}
	apphttp.WriteJSON(w, s, http.StatusOK)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := manager.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleRestore(w http.ResponseWriter, r *http.Request) {
	s, err := manager.Restore(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	apphttp.WriteJSON(w, s, http.StatusOK)
}

func handleCompare(w http.ResponseWriter, r *http.Request) {
	current, err := manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	baseline, err := manager.Get(chi.URLParam(r, "baseline"))
	if err != nil {
		writeError(w, err)
		return
	}

	cur, err := svc.Calculate(current)
	if err != nil {
		writeError(w, err)
		return
	}
	base, err := svc.Calculate(baseline)
	if err != nil {
		writeError(w, err)
		return
	}

	comparison, err := metricsSvc.Compare(cur, base)
	if errors.Is(err, metrics.ErrToolMismatch) {
		apphttp.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	apphttp.WriteJSON(w, comparison, http.StatusOK)
}
