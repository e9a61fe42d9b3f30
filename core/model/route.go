package model

// SegmentKind identifies the role of one leg in an assembled route.
type SegmentKind string

const (
	SegmentDirect       SegmentKind = "direct"
	SegmentChargingStop SegmentKind = "to-charging-stop"
	SegmentFinal        SegmentKind = "final"
)

// RouteSegment is one drivable leg. For a to-charging-stop segment the
// Station field names the stop and ChargingMinutes the dwell time there.
type RouteSegment struct {
	From            Coordinate       `json:"from"`
	To              Coordinate       `json:"to"`
	DistanceKm      float64          `json:"distance_km"`
	DurationMinutes float64          `json:"duration_minutes"`
	Kind            SegmentKind      `json:"kind"`
	Station         *ChargingStation `json:"station,omitempty"`
	ChargingMinutes float64          `json:"charging_minutes,omitempty"`
	Geometry        []Coordinate     `json:"geometry,omitempty"`
}

// Route is the assembled plan returned to the caller. It is built once per
// planning call and never mutated afterwards; changed inputs require a new
// plan. Segment continuity holds: Segments[i].To == Segments[i+1].From.
type Route struct {
	PlanID               string            `json:"plan_id"`
	Segments             []RouteSegment    `json:"segments"`
	TotalDistanceKm      float64           `json:"total_distance_km"`
	TotalDurationMinutes float64           `json:"total_duration_minutes"` // travel plus charging dwell
	ChargingStops        []ChargingStation `json:"charging_stops"`
	Strategy             Strategy          `json:"strategy"`
	Feasible             bool              `json:"feasible"`
	Warnings             []string          `json:"warnings,omitempty"`
}
