package planner

import (
	"errors"
	"fmt"
)

// InfeasibleReason is a machine-readable cause for a failed plan.
type InfeasibleReason string

const (
	ReasonNoReachableStation InfeasibleReason = "no-reachable-station"
	ReasonTooManyStops       InfeasibleReason = "too-many-stops-required"
	ReasonRouterUnavailable  InfeasibleReason = "segment-router-unavailable"
)

// InfeasibleError reports that no valid plan exists within the constraints.
// It is a normal, expected outcome, not a bug; callers branch on Reason.
type InfeasibleError struct {
	Reason InfeasibleReason
	Detail string
}

func (e *InfeasibleError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("plan infeasible: %s", e.Reason)
	}
	return fmt.Sprintf("plan infeasible: %s: %s", e.Reason, e.Detail)
}

// Remediation returns a user-facing suggestion for the failure.
func (e *InfeasibleError) Remediation() string {
	switch e.Reason {
	case ReasonNoReachableStation:
		return "charge the vehicle before departure or widen the detour tolerance"
	case ReasonTooManyStops:
		return "the trip needs more charging stops than allowed; split the trip"
	default:
		return "retry later"
	}
}

// AsInfeasible extracts an InfeasibleError from an error chain.
func AsInfeasible(err error) (*InfeasibleError, bool) {
	var ie *InfeasibleError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// InvalidInputError rejects malformed planning input. Only truly invalid
// input produces it; business-logic infeasibility never does.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Msg)
}

// AsInvalidInput extracts an InvalidInputError from an error chain.
func AsInvalidInput(err error) (*InvalidInputError, bool) {
	var ve *InvalidInputError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
