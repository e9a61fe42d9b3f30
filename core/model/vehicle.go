package model

// VehicleState captures the battery situation of a vehicle at departure.
type VehicleState struct {
	BatteryPercent float64 `json:"battery_percent"` // between 0 and 100
	TotalRangeKm   float64 `json:"total_range_km"`  // rated range at full charge
}

// UsableRangeKm returns the range the planner may actually spend, reduced by
// the safety factor so the vehicle never arrives empty. The result is never
// negative and never exceeds the rated range.
func (v VehicleState) UsableRangeKm(safetyFactor float64) float64 {
	r := v.BatteryPercent / 100 * v.TotalRangeKm * safetyFactor
	if r < 0 {
		return 0
	}
	if r > v.TotalRangeKm {
		return v.TotalRangeKm
	}
	return r
}
