package pipeline

import "github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"

// FilterStations returns the stations whose duration and sampled elevation
// both strictly exceed the thresholds. Stations with an invalid (no-data)
// elevation are always excluded. Pure; input order is preserved.
func FilterStations(stations []domain.Station, minDurationDays, minElevationMeters float64) []domain.Station {
	kept := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if !s.Elevation.Valid {
			continue
		}
		if s.DurationDays > minDurationDays && s.Elevation.Meters > minElevationMeters {
			kept = append(kept, s)
		}
	}
	return kept
}

// CountNoData returns how many stations carry an invalid elevation sample.
// The pipeline surfaces this before filtering so silent exclusions are
// visible in logs and metrics.
func CountNoData(stations []domain.Station) int {
	n := 0
	for _, s := range stations {
		if !s.Elevation.Valid {
			n++
		}
	}
	return n
}
