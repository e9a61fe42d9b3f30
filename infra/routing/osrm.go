// Package routing provides the HTTP adapter for the segment router
// contract, speaking the OSRM route API.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
	coreRouting "github.com/chargeway/chargeway/core/routing"
	infralogger "github.com/chargeway/chargeway/infra/logger"
)

// Config defines the directions provider settings.
type Config struct {
	// BaseURL of the OSRM-compatible server, e.g. "https://router.example.com".
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `json:"timeout_seconds"`
	// MaxAttempts caps retries on transient failures.
	MaxAttempts int `json:"max_attempts"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
}

// OSRMRouter resolves legs against an OSRM-compatible HTTP service.
type OSRMRouter struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewOSRMRouter creates a router for the configured provider.
func NewOSRMRouter(cfg Config) (*OSRMRouter, error) {
	cfg.SetDefaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("routing: base_url is required")
	}
	return &OSRMRouter{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    infralogger.New("osrm-router"),
	}, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Route implements routing.SegmentRouter. The strategy hint is not mapped to
// a profile: public OSRM instances expose a single driving profile.
func (r *OSRMRouter) Route(ctx context.Context, from, to model.Coordinate, hint model.Strategy) (coreRouting.Leg, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		strings.TrimSuffix(r.cfg.BaseURL, "/"), from.Lon, from.Lat, to.Lon, to.Lat)

	body, err := r.getWithRetry(ctx, url)
	if err != nil {
		return coreRouting.Leg{}, fmt.Errorf("%w: %v", coreRouting.ErrRouteUnavailable, err)
	}

	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return coreRouting.Leg{}, fmt.Errorf("%w: decode response: %v", coreRouting.ErrRouteUnavailable, err)
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return coreRouting.Leg{}, fmt.Errorf("%w: provider code %q", coreRouting.ErrRouteUnavailable, resp.Code)
	}

	route := resp.Routes[0]
	geometry := make([]model.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, c := range route.Geometry.Coordinates {
		if len(c) == 2 {
			geometry = append(geometry, model.Coordinate{Lat: c[1], Lon: c[0]})
		}
	}
	return coreRouting.Leg{
		DistanceKm:      route.Distance / 1000,
		DurationMinutes: route.Duration / 60,
		Geometry:        geometry,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// getWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (r *OSRMRouter) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	backoff := 200 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := r.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		retry := true
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
			default:
				retry = false
			}
		}
		if !retry || attempt == r.cfg.MaxAttempts {
			break
		}
		r.log.Warnf("routing request failed (attempt %d/%d): %v", attempt, r.cfg.MaxAttempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (r *OSRMRouter) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
