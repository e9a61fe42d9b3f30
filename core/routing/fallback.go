package routing

import (
	"context"
	"errors"

	"github.com/chargeway/chargeway/core/geo"
	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
)

const (
	// Straight-line distances underestimate road distance; scale up.
	defaultRoadFactor = 1.25
	// Average speed assumed when the provider cannot supply a duration.
	defaultAvgSpeedKmh = 60.0
)

// FallbackRouter wraps a SegmentRouter and degrades to a great-circle
// estimate when the provider is unavailable, so a single provider outage
// never aborts a whole plan. The degradation is logged, not surfaced.
type FallbackRouter struct {
	inner       SegmentRouter
	log         logger.Logger
	RoadFactor  float64
	AvgSpeedKmh float64
}

// NewFallbackRouter wraps inner. A nil inner router means every leg is
// estimated, which is what the offline CLI mode uses.
func NewFallbackRouter(inner SegmentRouter, log logger.Logger) *FallbackRouter {
	return &FallbackRouter{
		inner:       inner,
		log:         log,
		RoadFactor:  defaultRoadFactor,
		AvgSpeedKmh: defaultAvgSpeedKmh,
	}
}

// Route implements SegmentRouter.
func (r *FallbackRouter) Route(ctx context.Context, from, to model.Coordinate, hint model.Strategy) (Leg, error) {
	if r.inner != nil {
		leg, err := r.inner.Route(ctx, from, to, hint)
		if err == nil {
			return leg, nil
		}
		if !errors.Is(err, ErrRouteUnavailable) && ctx.Err() != nil {
			return Leg{}, err
		}
		if r.log != nil {
			r.log.Warnf("segment router unavailable, using straight-line estimate: %v", err)
		}
	}
	return r.estimate(from, to), nil
}

func (r *FallbackRouter) estimate(from, to model.Coordinate) Leg {
	d := geo.DistanceKm(from, to) * r.RoadFactor
	return Leg{
		DistanceKm:      d,
		DurationMinutes: d / r.AvgSpeedKmh * 60,
		Geometry:        []model.Coordinate{from, to},
	}
}
