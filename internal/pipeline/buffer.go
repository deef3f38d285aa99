package pipeline

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// BufferSegments is the number of boundary vertices per buffer polygon.
// 64 keeps the polygon's area within 0.2% of the true disk; the containment
// tests downstream depend on that tolerance, so it must stay >= 32 (the 1%
// bound).
const BufferSegments = 64

// BufferStations builds one disk polygon of the given radius around every
// station. Stations must already be in a metric frame; the radius is in
// meters. A non-positive radius is an InvalidRadiusError.
func BufferStations(stations []domain.Station, radiusMeters float64) ([]domain.StationBuffer, error) {
	if radiusMeters <= 0 {
		return nil, &domain.InvalidRadiusError{RadiusMeters: radiusMeters}
	}

	buffers := make([]domain.StationBuffer, 0, len(stations))
	for _, s := range stations {
		buffers = append(buffers, domain.StationBuffer{
			StationID:    s.ID,
			RadiusMeters: radiusMeters,
			Polygon:      diskPolygon(s.Point, radiusMeters),
			Frame:        s.Frame,
		})
	}
	return buffers, nil
}

// diskPolygon approximates a disk with a closed counterclockwise ring.
func diskPolygon(center orb.Point, radius float64) orb.Polygon {
	ring := make(orb.Ring, 0, BufferSegments+1)
	for i := 0; i < BufferSegments; i++ {
		theta := 2 * math.Pi * float64(i) / BufferSegments
		ring = append(ring, orb.Point{
			center[0] + radius*math.Cos(theta),
			center[1] + radius*math.Sin(theta),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
