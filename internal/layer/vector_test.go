package layer_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/layer"
)

func TestStations_Valid(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [-106.3, 39.1]},
				"properties": {"id": "snotel-001", "name": "Ridge Site", "duration_days": 155}
			},
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [-106.1, 39.3]},
				"properties": {"duration_days": 90.5}
			}
		]
	}`)

	stations, err := layer.Stations(data, domain.WGS84)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "snotel-001", stations[0].ID)
	assert.Equal(t, "Ridge Site", stations[0].Name)
	assert.Equal(t, orb.Point{-106.3, 39.1}, stations[0].Point)
	assert.Equal(t, domain.WGS84, stations[0].Frame)
	assert.Equal(t, 155.0, stations[0].DurationDays)
	assert.False(t, stations[0].Elevation.Valid, "elevation is attached later by the sampler")

	// Missing id falls back to a positional one.
	assert.Equal(t, "station-1", stations[1].ID)
	assert.Equal(t, 90.5, stations[1].DurationDays)
}

func TestStations_MissingDuration(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [0, 0]},
			"properties": {"id": "x"}
		}]
	}`)

	_, err := layer.Stations(data, domain.WGS84)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_days")
}

func TestStations_NonPointGeometry(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
			"properties": {"duration_days": 100}
		}]
	}`)

	_, err := layer.Stations(data, domain.WGS84)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want Point")
}

func TestStations_MalformedJSON(t *testing.T) {
	_, err := layer.Stations([]byte("not geojson"), domain.WGS84)
	assert.Error(t, err)
}

func TestCities_Valid(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-105.5, 39.0]},
			"properties": {"name": "Alpine Junction", "population": 12000}
		}]
	}`)

	cities, err := layer.Cities(data, domain.WGS84)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Alpine Junction", cities[0].Name)
	assert.Equal(t, int64(12000), cities[0].Population)
}

func TestCities_MissingName(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [0, 0]},
			"properties": {"population": 100}
		}]
	}`)

	_, err := layer.Cities(data, domain.WGS84)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestCounties_PolygonAndMultiPolygon(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]},
				"properties": {"name": "West Ridge County"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "MultiPolygon", "coordinates": [[[[2,0],[3,0],[3,1],[2,1],[2,0]]]]},
				"properties": {"name": "East Ridge County"}
			}
		]
	}`)

	counties, err := layer.Counties(data, domain.WGS84)
	require.NoError(t, err)
	require.Len(t, counties, 2)
	assert.Equal(t, "West Ridge County", counties[0].Name)
	require.Len(t, counties[0].Boundary, 1)
	assert.Equal(t, "East Ridge County", counties[1].Name)
	require.Len(t, counties[1].Boundary, 1)
}

func TestCounties_PointGeometryRejected(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [0, 0]},
			"properties": {"name": "Dot County"}
		}]
	}`)

	_, err := layer.Counties(data, domain.WGS84)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want Polygon or MultiPolygon")
}
