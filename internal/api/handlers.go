package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

const maxBodyBytes = 1 << 20

// Handler serves pension calculations over HTTP. The calculator is shared
// across requests.
type Handler struct {
	Calculator *calculation.Calculator
	Logger     calculation.Logger
}

// NewHandler creates a handler; a nil logger disables logging
func NewHandler(calc *calculation.Calculator, logger calculation.Logger) *Handler {
	if calc == nil {
		calc = calculation.NewCalculator()
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{Calculator: calc, Logger: logger}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ComputePension runs one projection for the posted input.
// POST /api/pension
func (h *Handler) ComputePension(w http.ResponseWriter, r *http.Request) {
	var in domain.PensionInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body: " + err.Error()})
		return
	}

	report, err := h.Calculator.Report(in)
	if err != nil {
		if kind, ok := calculation.KindOf(err); ok {
			h.Logger.Infof("rejected pension request: %v", err)
			h.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Kind: kind.String(), Message: err.Error()})
			return
		}
		h.Logger.Errorf("pension calculation failed: %v", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Errorf("failed to encode response: %v", err)
	}
}
