// Package routing defines the segment router contract the planner depends
// on. Implementations live in infra; the planner only sees this interface.
package routing

import (
	"context"
	"errors"

	"github.com/chargeway/chargeway/core/model"
)

// ErrRouteUnavailable is returned when no path exists between the points or
// the directions provider cannot be reached.
var ErrRouteUnavailable = errors.New("routing: route unavailable")

// Leg is one routed connection between two coordinates.
type Leg struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        []model.Coordinate
}

// SegmentRouter resolves a single leg between two coordinates. The strategy
// hint lets providers pick a matching profile; implementations may ignore it.
type SegmentRouter interface {
	Route(ctx context.Context, from, to model.Coordinate, hint model.Strategy) (Leg, error)
}
