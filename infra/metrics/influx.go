package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/chargeway/chargeway/core/logger"
	coremetrics "github.com/chargeway/chargeway/core/metrics"
	infralogger "github.com/chargeway/chargeway/infra/logger"
)

// InfluxSink writes planning events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanResult writes the plan outcome as a line protocol point.
func (s *InfluxSink) RecordPlanResult(res coremetrics.PlanResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_event").
		AddTag("plan_id", res.PlanID).
		AddTag("strategy", res.Strategy.String()).
		AddTag("feasible", strconv.FormatBool(res.Feasible)).
		AddTag("reason", res.Reason).
		AddField("charging_stops", res.ChargingStops).
		AddField("total_distance_km", round3(res.TotalDistanceKm)).
		AddField("total_duration_minutes", round3(res.TotalDurationMinutes)).
		AddField("elapsed_ms", res.Elapsed.Milliseconds()).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPrediction writes a standalone demand prediction point.
func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("demand_prediction").
		AddTag("station_id", ev.StationID).
		AddTag("status", ev.Status).
		AddField("usage", round3(ev.Usage)).
		AddField("confidence", round3(ev.Confidence)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
