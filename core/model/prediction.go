package model

import "time"

// DemandStatus is a coarse classification of predicted station load.
type DemandStatus string

const (
	StatusAvailable DemandStatus = "available"
	StatusModerate  DemandStatus = "moderate"
	StatusBusy      DemandStatus = "busy"
	StatusCritical  DemandStatus = "critical"
	StatusFull      DemandStatus = "full"
)

// StatusForUsage maps a usage fraction to its status classification using
// fixed thresholds.
func StatusForUsage(usage float64) DemandStatus {
	switch {
	case usage >= 0.95:
		return StatusFull
	case usage >= 0.8:
		return StatusCritical
	case usage >= 0.6:
		return StatusBusy
	case usage >= 0.4:
		return StatusModerate
	default:
		return StatusAvailable
	}
}

// DemandPrediction is the forecast for one station at one point in time.
// It is derived purely from (station, timestamp): identical inputs always
// yield the identical prediction.
type DemandPrediction struct {
	StationID       string       `json:"station_id"`
	Timestamp       time.Time    `json:"timestamp"`
	PredictedUsage  float64      `json:"predicted_usage"` // fraction in [0,1]
	Confidence      float64      `json:"confidence"`      // fraction in [0,1]
	AvailableSlots  int          `json:"available_slots"`
	WaitTimeMinutes float64      `json:"wait_time_minutes"`
	Status          DemandStatus `json:"status"`
}
