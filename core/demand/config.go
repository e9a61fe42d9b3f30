package demand

import "fmt"

// Config defines demand prediction settings.
type Config struct {
	// DeterministicWeight and LearnedWeight control the blend. They must sum
	// to 1 when both sides are available; the learned weight collapses to
	// zero when no estimate exists.
	DeterministicWeight float64 `json:"deterministic_weight"`
	LearnedWeight       float64 `json:"learned_weight"`
	// PeakBoost multiplies usage during a station's declared peak hours.
	PeakBoost float64 `json:"peak_boost"`
	// CacheTTLSeconds bounds how long a bucket entry is served before it is
	// recomputed. Expiry only allows configuration hot-reload; it never
	// changes the deterministic value of a bucket.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.DeterministicWeight == 0 && c.LearnedWeight == 0 {
		c.DeterministicWeight = 0.6
		c.LearnedWeight = 0.4
	}
	if c.PeakBoost == 0 {
		c.PeakBoost = 1.3
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 300
	}
}

// Validate checks the blend weights and peak boost.
func (c Config) Validate() error {
	if c.DeterministicWeight < 0 || c.LearnedWeight < 0 {
		return fmt.Errorf("blend weights must be non-negative")
	}
	sum := c.DeterministicWeight + c.LearnedWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("blend weights must sum to 1, got %v", sum)
	}
	if c.PeakBoost < 1.0 || c.PeakBoost > 1.5 {
		return fmt.Errorf("peak boost %v outside [1.0, 1.5]", c.PeakBoost)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache ttl must be non-negative")
	}
	return nil
}
