package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chargeway/chargeway/core/model"
)

// LoadCatalog reads the charging station catalog from a JSON file. The file
// holds a plain array of stations.
func LoadCatalog(path string) ([]model.ChargingStation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var stations []model.ChargingStation
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog: station with empty id")
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate station id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if !s.Coordinates.Valid() {
			return nil, fmt.Errorf("catalog: station %s has invalid coordinates", s.ID)
		}
	}
	return stations, nil
}
