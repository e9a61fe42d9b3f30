package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/metrics"
	"github.com/chargeway/chargeway/core/planner"
	"github.com/chargeway/chargeway/infra/routing"
	"github.com/chargeway/chargeway/infra/stationfeed"
)

type Config struct {
	API         APIConfig          `json:"api"`
	Logging     LoggingConfig      `json:"logging"`
	Catalog     CatalogConfig      `json:"catalog"`
	Planner     planner.Config     `json:"planner"`
	Demand      demand.Config      `json:"demand"`
	Router      routing.Config     `json:"router"`
	StationFeed stationfeed.Config `json:"station_feed"`
	Metrics     metrics.Config     `json:"metrics"`
}

// APIConfig defines the HTTP listener.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// CatalogConfig points at the charging station catalog file.
type CatalogConfig struct {
	Path string `json:"path"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CW_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cw_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Planner.SetDefaults()
	cfg.Demand.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Demand.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
