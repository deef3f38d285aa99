package layer

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// Stations parses a GeoJSON feature collection of station points.
// Required properties: duration_days. Optional: id (generated when absent),
// name.
func Stations(data []byte, f domain.ReferenceFrame) ([]domain.Station, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("stations geojson: %w", err)
	}

	stations := make([]domain.Station, 0, len(fc.Features))
	for i, feat := range fc.Features {
		pt, ok := feat.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("station feature %d: geometry is %T, want Point", i, feat.Geometry)
		}
		duration, ok := propFloat(feat.Properties, "duration_days")
		if !ok {
			return nil, fmt.Errorf("station feature %d: missing required property duration_days", i)
		}

		id, ok := propString(feat.Properties, "id")
		if !ok {
			id = fmt.Sprintf("station-%d", i)
		}
		name, _ := propString(feat.Properties, "name")

		stations = append(stations, domain.Station{
			ID:           id,
			Name:         name,
			Point:        pt,
			Frame:        f,
			DurationDays: duration,
		})
	}
	return stations, nil
}

// Cities parses a GeoJSON feature collection of city points.
// Required properties: name. Optional: population.
func Cities(data []byte, f domain.ReferenceFrame) ([]domain.City, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("cities geojson: %w", err)
	}

	cities := make([]domain.City, 0, len(fc.Features))
	for i, feat := range fc.Features {
		pt, ok := feat.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("city feature %d: geometry is %T, want Point", i, feat.Geometry)
		}
		name, ok := propString(feat.Properties, "name")
		if !ok {
			return nil, fmt.Errorf("city feature %d: missing required property name", i)
		}
		population, _ := propFloat(feat.Properties, "population")

		cities = append(cities, domain.City{
			Name:       name,
			Point:      pt,
			Frame:      f,
			Population: int64(population),
		})
	}
	return cities, nil
}

// Counties parses a GeoJSON feature collection of county boundaries.
// Polygon and MultiPolygon geometries are accepted; required property: name.
func Counties(data []byte, f domain.ReferenceFrame) ([]domain.County, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("counties geojson: %w", err)
	}

	counties := make([]domain.County, 0, len(fc.Features))
	for i, feat := range fc.Features {
		var boundary orb.MultiPolygon
		switch g := feat.Geometry.(type) {
		case orb.Polygon:
			boundary = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			boundary = g
		default:
			return nil, fmt.Errorf("county feature %d: geometry is %T, want Polygon or MultiPolygon", i, feat.Geometry)
		}
		name, ok := propString(feat.Properties, "name")
		if !ok {
			return nil, fmt.Errorf("county feature %d: missing required property name", i)
		}

		counties = append(counties, domain.County{
			Name:     name,
			Boundary: boundary,
			Frame:    f,
		})
	}
	return counties, nil
}

// propFloat reads a numeric property. GeoJSON numbers decode as float64, but
// hand-written fixtures sometimes hold ints.
func propFloat(props geojson.Properties, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func propString(props geojson.Properties, key string) (string, bool) {
	s, ok := props[key].(string)
	return s, ok && s != ""
}
