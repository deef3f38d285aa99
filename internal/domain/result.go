package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// FilteredStation is a row of the filtered-stations output table, in the
// geographic output frame.
type FilteredStation struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Point           orb.Point `json:"point"` // lon, lat (WGS-84)
	DurationDays    float64   `json:"duration_days"`
	ElevationMeters float64   `json:"elevation_m"`
	County          string    `json:"county,omitempty"`
}

// CityInRange is a row of the cities-within-buffer output table, in the
// geographic output frame.
type CityInRange struct {
	Name                 string    `json:"name"`
	Point                orb.Point `json:"point"` // lon, lat (WGS-84)
	Population           int64     `json:"population"`
	NearestStationID     string    `json:"nearest_station_id,omitempty"`
	NearestStationMeters float64   `json:"nearest_station_m,omitempty"`
}

// Result is the pipeline's complete output, handed to the configured sinks.
// The core makes no assumption about what a sink does with it.
type Result struct {
	Stations    []FilteredStation `json:"stations"`
	Cities      []CityInRange     `json:"cities"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Summary holds the per-run counts exposed over the HTTP surface.
type Summary struct {
	StationsLoaded   int       `json:"stations_loaded"`
	StationsNoData   int       `json:"stations_no_data"`
	StationsFiltered int       `json:"stations_filtered"`
	CitiesMatched    int       `json:"cities_matched"`
	GeneratedAt      time.Time `json:"generated_at"`
}
