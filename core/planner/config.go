package planner

import "fmt"

// Config defines planning settings.
type Config struct {
	// SafetyFactor scales usable range below the rated range.
	SafetyFactor float64 `json:"safety_factor"`
	// ChargeTargetPercent is the state of charge assumed after each stop.
	ChargeTargetPercent float64 `json:"charge_target_percent"`
	// Stop caps bound the assembly loop and guarantee termination.
	MaxStopsLocal     int `json:"max_stops_local"`
	MaxStopsIntercity int `json:"max_stops_intercity"`
	// Detour budgets as a fraction of the direct distance.
	MaxDetourLocal     float64 `json:"max_detour_local"`
	MaxDetourIntercity float64 `json:"max_detour_intercity"`
	// Trips longer than this threshold use the intercity caps and budget.
	IntercityThresholdKm float64 `json:"intercity_threshold_km"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SafetyFactor == 0 {
		c.SafetyFactor = 0.8
	}
	if c.ChargeTargetPercent == 0 {
		c.ChargeTargetPercent = 85
	}
	if c.MaxStopsLocal == 0 {
		c.MaxStopsLocal = 3
	}
	if c.MaxStopsIntercity == 0 {
		c.MaxStopsIntercity = 10
	}
	if c.MaxDetourLocal == 0 {
		c.MaxDetourLocal = 0.2
	}
	if c.MaxDetourIntercity == 0 {
		c.MaxDetourIntercity = 0.3
	}
	if c.IntercityThresholdKm == 0 {
		c.IntercityThresholdKm = 100
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.SafetyFactor < 0.5 || c.SafetyFactor > 1.0 {
		return fmt.Errorf("safety factor %v outside [0.5, 1.0]", c.SafetyFactor)
	}
	if c.ChargeTargetPercent <= 0 || c.ChargeTargetPercent > 100 {
		return fmt.Errorf("charge target %v outside (0, 100]", c.ChargeTargetPercent)
	}
	if c.MaxStopsLocal <= 0 || c.MaxStopsIntercity <= 0 {
		return fmt.Errorf("stop caps must be positive")
	}
	if c.MaxDetourLocal <= 0 || c.MaxDetourIntercity <= 0 {
		return fmt.Errorf("detour budgets must be positive")
	}
	return nil
}
