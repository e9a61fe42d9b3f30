// Package export renders assembled routes for files and pipes.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/chargeway/chargeway/core/model"
)

// WriteJSON writes the route to w in indented JSON.
func WriteJSON(w io.Writer, route model.Route) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(route)
}

// WriteCSV writes one row per segment.
func WriteCSV(w io.Writer, route model.Route) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "from_lat", "from_lon", "to_lat", "to_lon", "distance_km", "duration_minutes", "station_id", "charging_minutes"}); err != nil {
		return err
	}
	for _, s := range route.Segments {
		stationID := ""
		if s.Station != nil {
			stationID = s.Station.ID
		}
		rec := []string{
			string(s.Kind),
			formatFloat(s.From.Lat),
			formatFloat(s.From.Lon),
			formatFloat(s.To.Lat),
			formatFloat(s.To.Lon),
			formatFloat(s.DistanceKm),
			formatFloat(s.DurationMinutes),
			stationID,
			formatFloat(s.ChargingMinutes),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
