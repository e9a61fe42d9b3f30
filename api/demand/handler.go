// Package demand exposes standalone demand queries over HTTP.
package demand

import (
	"encoding/json"
	"net/http"
	"time"

	coredemand "github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns an HTTP handler serving GET /api/demand.
// The sink receives one PredictionEvent per successful query.
func NewHandler(p coredemand.Predictor, sink metrics.PredictionRecorder, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stationID := r.URL.Query().Get("station")
		if stationID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing station parameter"})
			return
		}
		at := time.Now()
		if raw := r.URL.Query().Get("t"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "t must be RFC3339"})
				return
			}
			at = parsed
		}

		pred, err := p.Predict(stationID, at)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		if sink != nil {
			if err := sink.RecordPrediction(metrics.PredictionEvent{
				StationID:  pred.StationID,
				Usage:      pred.PredictedUsage,
				Confidence: pred.Confidence,
				Status:     string(pred.Status),
				Time:       at,
			}); err != nil {
				log.Warnf("recording prediction: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, pred)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
