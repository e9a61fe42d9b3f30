// Package events defines the event types published on the internal bus
// while a plan is assembled. Consumers are advisory: logging and metrics
// subscribers must never influence the plan itself.
package events

import "github.com/chargeway/chargeway/core/model"

// PlanStageEvent marks a state transition of the route assembler.
type PlanStageEvent struct {
	PlanID string
	Stage  string // "direct", "needs-charging", "feasible", "infeasible"
	Reason string // set for infeasible transitions
}

// StationSelectedEvent reports one committed charging stop.
type StationSelectedEvent struct {
	PlanID    string
	StationID string
	Score     float64
	Strategy  model.Strategy
}
