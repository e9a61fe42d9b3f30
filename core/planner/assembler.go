package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/events"
	"github.com/chargeway/chargeway/core/geo"
	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/metrics"
	"github.com/chargeway/chargeway/core/model"
	"github.com/chargeway/chargeway/core/routing"
	"github.com/chargeway/chargeway/internal/eventbus"
)

// PlanRequest carries everything a single planning call needs. The planner
// holds no state between calls; concurrent requests are independent.
type PlanRequest struct {
	Origin      model.Coordinate        `json:"origin"`
	Destination model.Coordinate        `json:"destination"`
	Vehicle     model.VehicleState      `json:"vehicle"`
	Strategy    model.Strategy          `json:"strategy"`
	Stations    []model.ChargingStation `json:"stations"`
	DepartAt    time.Time               `json:"depart_at"`
}

// Planner assembles battery-feasible routes from a segment router, a station
// scorer and a demand predictor.
type Planner struct {
	router routing.SegmentRouter
	scorer *StationScorer
	cfg    Config
	log    logger.Logger
	bus    eventbus.EventBus
	sink   metrics.MetricsSink
}

// NewPlanner creates a planner. Router and predictor are mandatory.
func NewPlanner(router routing.SegmentRouter, pred demand.Predictor, cfg Config, log logger.Logger) (*Planner, error) {
	if router == nil || pred == nil {
		return nil, fmt.Errorf("planner: nil router or predictor")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Planner{
		router: router,
		scorer: NewStationScorer(pred, log),
		cfg:    cfg,
		log:    log,
	}, nil
}

// SetEventBus attaches a bus for plan stage events. Optional.
func (p *Planner) SetEventBus(bus eventbus.EventBus) { p.bus = bus }

// SetMetricsSink attaches a sink for plan results. Optional.
func (p *Planner) SetMetricsSink(sink metrics.MetricsSink) { p.sink = sink }

// Plan assembles a route from origin to destination or fails with a typed
// reason. Infeasibility is returned as *InfeasibleError, malformed input as
// *InvalidInputError; context errors propagate unchanged.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (model.Route, error) {
	start := time.Now()
	if err := validateRequest(req); err != nil {
		return model.Route{}, err
	}
	if req.DepartAt.IsZero() {
		req.DepartAt = start
	}

	planID := uuid.NewString()
	route, err := p.assemble(ctx, planID, req)
	p.record(planID, req.Strategy, route, err, time.Since(start))
	if err != nil {
		return model.Route{}, err
	}
	return route, nil
}

func (p *Planner) assemble(ctx context.Context, planID string, req PlanRequest) (model.Route, error) {
	usable := req.Vehicle.UsableRangeKm(p.cfg.SafetyFactor)
	directKm := geo.DistanceKm(req.Origin, req.Destination)

	intercity := directKm > p.cfg.IntercityThresholdKm
	maxStops := p.cfg.MaxStopsLocal
	maxDetour := p.cfg.MaxDetourLocal
	if intercity {
		maxStops = p.cfg.MaxStopsIntercity
		maxDetour = p.cfg.MaxDetourIntercity
	}

	// Direct case: one routed segment, no charging.
	if directKm <= usable {
		leg, err := p.route(ctx, req.Origin, req.Destination, req.Strategy)
		if err != nil {
			return model.Route{}, err
		}
		if leg.DistanceKm <= usable {
			p.publish(events.PlanStageEvent{PlanID: planID, Stage: "direct"})
			return p.finish(planID, req, []model.RouteSegment{{
				From:            req.Origin,
				To:              req.Destination,
				DistanceKm:      leg.DistanceKm,
				DurationMinutes: leg.DurationMinutes,
				Kind:            model.SegmentDirect,
				Geometry:        leg.Geometry,
			}}, nil, nil), nil
		}
		// Road distance exceeded the great-circle estimate; fall through to
		// charging-stop assembly.
	}
	p.publish(events.PlanStageEvent{PlanID: planID, Stage: "needs-charging"})

	var (
		segments []model.RouteSegment
		stops    []model.ChargingStation
		warnings []string
		visited  = make(map[string]bool)
		cur      = req.Origin
		curRange = usable
		elapsed  = 0.0
	)
	postCharge := model.VehicleState{
		BatteryPercent: p.cfg.ChargeTargetPercent,
		TotalRangeKm:   req.Vehicle.TotalRangeKm,
	}.UsableRangeKm(p.cfg.SafetyFactor)

	for stop := 0; stop < maxStops; stop++ {
		if err := ctx.Err(); err != nil {
			return model.Route{}, err
		}
		at := req.DepartAt.Add(time.Duration(elapsed) * time.Minute)
		ranked := p.scorer.Rank(cur, req.Destination, req.Stations, req.Strategy, curRange, maxDetour, intercity, at)

		var (
			chosen *ScoredStation
			leg    routing.Leg
		)
		for i := range ranked {
			if visited[ranked[i].Station.ID] {
				continue
			}
			l, err := p.route(ctx, cur, ranked[i].Station.Coordinates, req.Strategy)
			if err != nil {
				// Local failure: retry with the next-ranked candidate.
				p.log.Warnf("routing to station %s failed: %v", ranked[i].Station.ID, err)
				warnings = append(warnings, fmt.Sprintf("station %s skipped: routing failed", ranked[i].Station.ID))
				continue
			}
			if l.DistanceKm > curRange {
				continue
			}
			chosen = &ranked[i]
			leg = l
			break
		}
		if chosen == nil {
			reason := ReasonNoReachableStation
			p.publish(events.PlanStageEvent{PlanID: planID, Stage: "infeasible", Reason: string(reason)})
			return model.Route{}, &InfeasibleError{
				Reason: reason,
				Detail: fmt.Sprintf("no eligible station within %.0f km of (%.4f, %.4f)", curRange, cur.Lat, cur.Lon),
			}
		}

		st := chosen.Station
		dwell := chargeDwellMinutes(st, req.Vehicle, p.cfg.ChargeTargetPercent)
		segments = append(segments, model.RouteSegment{
			From:            cur,
			To:              st.Coordinates,
			DistanceKm:      leg.DistanceKm,
			DurationMinutes: leg.DurationMinutes,
			Kind:            model.SegmentChargingStop,
			Station:         &st,
			ChargingMinutes: dwell,
			Geometry:        leg.Geometry,
		})
		stops = append(stops, st)
		visited[st.ID] = true
		elapsed += leg.DurationMinutes + dwell
		cur = st.Coordinates
		curRange = postCharge
		p.publish(events.StationSelectedEvent{PlanID: planID, StationID: st.ID, Score: chosen.Score, Strategy: req.Strategy})
		p.log.Infof("stop %d: station %s (score %.3f, wait %.0f min)", stop+1, st.ID, chosen.Score, chosen.Prediction.WaitTimeMinutes)

		if geo.DistanceKm(cur, req.Destination) <= curRange {
			final, err := p.route(ctx, cur, req.Destination, req.Strategy)
			if err != nil {
				return model.Route{}, err
			}
			// The routed road distance can still exceed usable range even
			// when the great-circle distance fits; then keep adding stops.
			if final.DistanceKm <= curRange {
				segments = append(segments, model.RouteSegment{
					From:            cur,
					To:              req.Destination,
					DistanceKm:      final.DistanceKm,
					DurationMinutes: final.DurationMinutes,
					Kind:            model.SegmentFinal,
					Geometry:        final.Geometry,
				})
				p.publish(events.PlanStageEvent{PlanID: planID, Stage: "feasible"})
				return p.finish(planID, req, segments, stops, warnings), nil
			}
		}
	}

	p.publish(events.PlanStageEvent{PlanID: planID, Stage: "infeasible", Reason: string(ReasonTooManyStops)})
	return model.Route{}, &InfeasibleError{
		Reason: ReasonTooManyStops,
		Detail: fmt.Sprintf("stop cap %d reached before destination was in range", maxStops),
	}
}

// route calls the segment router and maps an unrecoverable provider failure
// to the typed infeasibility. Wrapping the router in routing.FallbackRouter
// makes this path unreachable in production wiring.
func (p *Planner) route(ctx context.Context, from, to model.Coordinate, hint model.Strategy) (routing.Leg, error) {
	leg, err := p.router.Route(ctx, from, to, hint)
	if err != nil {
		if ctx.Err() != nil {
			return routing.Leg{}, ctx.Err()
		}
		return routing.Leg{}, &InfeasibleError{Reason: ReasonRouterUnavailable, Detail: err.Error()}
	}
	return leg, nil
}

func (p *Planner) finish(planID string, req PlanRequest, segments []model.RouteSegment, stops []model.ChargingStation, warnings []string) model.Route {
	var dist, dur float64
	for _, s := range segments {
		dist += s.DistanceKm
		dur += s.DurationMinutes + s.ChargingMinutes
	}
	return model.Route{
		PlanID:               planID,
		Segments:             segments,
		TotalDistanceKm:      dist,
		TotalDurationMinutes: dur,
		ChargingStops:        stops,
		Strategy:             req.Strategy,
		Feasible:             true,
		Warnings:             warnings,
	}
}

func (p *Planner) record(planID string, strategy model.Strategy, route model.Route, err error, elapsed time.Duration) {
	if p.sink == nil {
		return
	}
	res := metrics.PlanResult{
		PlanID:   planID,
		Strategy: strategy,
		Elapsed:  elapsed,
		Time:     time.Now(),
	}
	if err == nil {
		res.Feasible = true
		res.ChargingStops = len(route.ChargingStops)
		res.TotalDistanceKm = route.TotalDistanceKm
		res.TotalDurationMinutes = route.TotalDurationMinutes
	} else if ie, ok := AsInfeasible(err); ok {
		res.Reason = string(ie.Reason)
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		res.Reason = "cancelled"
	} else {
		// Validation rejects before assembly starts, so anything left here
		// is an unexpected failure.
		res.Reason = "internal-error"
	}
	if rerr := p.sink.RecordPlanResult(res); rerr != nil {
		p.log.Errorf("record plan result: %v", rerr)
	}
}

func (p *Planner) publish(e eventbus.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// chargeDwellMinutes estimates the time spent charging from an assumed 10%
// arrival level up to the target state of charge. Rated power is derated to
// 70% for the taper; one kW sustains roughly 6 km of range per hour. Battery
// swaps take a fixed five minutes.
func chargeDwellMinutes(st model.ChargingStation, v model.VehicleState, targetPercent float64) float64 {
	if st.Type == model.StationBatterySwap {
		return 5
	}
	rangeToAdd := (targetPercent - 10) / 100 * v.TotalRangeKm
	if rangeToAdd <= 0 {
		return 10
	}
	power := st.ChargingPowerKW
	if power <= 0 {
		power = 22
	}
	kmPerMinute := power * 0.7 * 6 / 60
	dwell := rangeToAdd / kmPerMinute
	if dwell < 10 {
		dwell = 10
	}
	return dwell
}

func validateRequest(req PlanRequest) error {
	if !req.Origin.Valid() {
		return &InvalidInputError{Field: "origin", Msg: "coordinate out of range or not finite"}
	}
	if !req.Destination.Valid() {
		return &InvalidInputError{Field: "destination", Msg: "coordinate out of range or not finite"}
	}
	if req.Vehicle.BatteryPercent < 0 || req.Vehicle.BatteryPercent > 100 {
		return &InvalidInputError{Field: "vehicle.battery_percent", Msg: "must be between 0 and 100"}
	}
	if req.Vehicle.TotalRangeKm <= 0 {
		return &InvalidInputError{Field: "vehicle.total_range_km", Msg: "must be positive"}
	}
	return nil
}
