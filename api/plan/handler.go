// Package plan exposes the planning boundary over HTTP for UI and CLI
// consumers.
package plan

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
	"github.com/chargeway/chargeway/core/planner"
)

type errorResponse struct {
	Error       string `json:"error"`
	Reason      string `json:"reason,omitempty"`
	Field       string `json:"field,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// NewHandler returns an HTTP handler serving POST /api/plan. Requests that
// omit stations plan against the given catalog.
func NewHandler(p *planner.Planner, catalog []model.ChargingStation, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req planner.PlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		if len(req.Stations) == 0 {
			req.Stations = catalog
		}

		route, err := p.Plan(r.Context(), req)
		if err != nil {
			if ve, ok := planner.AsInvalidInput(err); ok {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Msg, Field: ve.Field})
				return
			}
			if ie, ok := planner.AsInfeasible(err); ok {
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
					Error:       ie.Error(),
					Reason:      string(ie.Reason),
					Remediation: ie.Remediation(),
				})
				return
			}
			if errors.Is(err, r.Context().Err()) {
				return
			}
			log.Errorf("plan request failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, route)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
