package model

// StationType classifies the charging technology offered by a station.
type StationType string

const (
	StationFastCharging StationType = "fast-charging"
	StationBatterySwap  StationType = "battery-swap"
	StationStandard     StationType = "standard"
)

// ChargingStation is immutable reference data describing one charging site.
// The planner never mutates a station; catalogs are supplied per call.
type ChargingStation struct {
	ID              string      `json:"id"`
	Coordinates     Coordinate  `json:"coordinates"`
	Type            StationType `json:"type"`
	ChargingPowerKW float64     `json:"charging_power_kw"`
	Capacity        int         `json:"capacity"` // number of charging slots
	OperatingHours  string      `json:"operating_hours"`
	SafetyRating    float64     `json:"safety_rating"` // 0 to 5
	Amenities       []string    `json:"amenities,omitempty"`
}
