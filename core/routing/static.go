package routing

import (
	"context"

	"github.com/chargeway/chargeway/core/geo"
	"github.com/chargeway/chargeway/core/model"
)

// StaticRouter derives every leg from great-circle distance with fixed road
// factor and speed. It is fully deterministic and needs no network, which
// makes it the router for tests and the offline CLI mode.
type StaticRouter struct {
	RoadFactor  float64
	AvgSpeedKmh float64
	// Fail makes every call return ErrRouteUnavailable; used to exercise
	// fallback behaviour in tests.
	Fail bool
	// Calls counts Route invocations.
	Calls int
}

// NewStaticRouter returns a router with the default road factor and speed.
func NewStaticRouter() *StaticRouter {
	return &StaticRouter{RoadFactor: defaultRoadFactor, AvgSpeedKmh: defaultAvgSpeedKmh}
}

// Route implements SegmentRouter.
func (r *StaticRouter) Route(ctx context.Context, from, to model.Coordinate, hint model.Strategy) (Leg, error) {
	r.Calls++
	if err := ctx.Err(); err != nil {
		return Leg{}, err
	}
	if r.Fail {
		return Leg{}, ErrRouteUnavailable
	}
	d := geo.DistanceKm(from, to) * r.RoadFactor
	speed := r.AvgSpeedKmh
	if hint == model.StrategyFastest {
		speed *= 1.1
	}
	return Leg{
		DistanceKm:      d,
		DurationMinutes: d / speed * 60,
		Geometry:        []model.Coordinate{from, to},
	}, nil
}
