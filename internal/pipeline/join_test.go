package pipeline_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/pipeline"
)

func metricCity(name string, x, y float64) domain.City {
	return domain.City{
		Name:  name,
		Point: orb.Point{x, y},
		Frame: domain.ConusAlbers,
	}
}

func mustBuffers(t *testing.T, stations []domain.Station, radius float64) []domain.StationBuffer {
	t.Helper()
	buffers, err := pipeline.BufferStations(stations, radius)
	require.NoError(t, err)
	return buffers
}

func TestCitiesWithinBuffers(t *testing.T) {
	buffers := mustBuffers(t, []domain.Station{metricStation("s1", 0, 0)}, 50000)
	cities := []domain.City{
		metricCity("inside", 30000, 0),
		metricCity("outside", 80000, 0),
		metricCity("also-inside", 0, -20000),
	}

	matched := pipeline.CitiesWithinBuffers(cities, buffers)

	require.Len(t, matched, 2)
	assert.Equal(t, "inside", matched[0].Name)
	assert.Equal(t, "also-inside", matched[1].Name)
}

func TestCitiesWithinBuffers_OverlappingBuffersDeduplicate(t *testing.T) {
	// The city sits inside both buffers but must appear once.
	buffers := mustBuffers(t, []domain.Station{
		metricStation("s1", 0, 0),
		metricStation("s2", 20000, 0),
	}, 50000)
	cities := []domain.City{metricCity("between", 10000, 0)}

	matched := pipeline.CitiesWithinBuffers(cities, buffers)
	require.Len(t, matched, 1)
	assert.Equal(t, "between", matched[0].Name)
}

func TestCitiesWithinBuffers_Deterministic(t *testing.T) {
	stations := []domain.Station{
		metricStation("s1", 0, 0),
		metricStation("s2", 120000, 0),
		metricStation("s3", 0, 120000),
	}
	buffers := mustBuffers(t, stations, 50000)
	cities := []domain.City{
		metricCity("a", 10000, 10000),
		metricCity("b", 130000, 0),
		metricCity("c", 500000, 500000),
		metricCity("d", 0, 100000),
	}

	first := pipeline.CitiesWithinBuffers(cities, buffers)
	second := pipeline.CitiesWithinBuffers(cities, buffers)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "a", first[0].Name)
	assert.Equal(t, "b", first[1].Name)
	assert.Equal(t, "d", first[2].Name)
}

func TestCitiesWithinBuffers_NearBoundary(t *testing.T) {
	buffers := mustBuffers(t, []domain.Station{metricStation("s1", 0, 0)}, 50000)

	// A vertex of the ring lies exactly at (50000, 0); the test is
	// boundary-inclusive, so a city on the vertex matches.
	matched := pipeline.CitiesWithinBuffers(
		[]domain.City{metricCity("on-vertex", 50000, 0)}, buffers)
	assert.Len(t, matched, 1)
}

func TestCitiesWithinBuffers_NoBuffers(t *testing.T) {
	cities := []domain.City{metricCity("anywhere", 0, 0)}

	assert.Nil(t, pipeline.CitiesWithinBuffers(cities, nil))
	assert.Nil(t, pipeline.CitiesWithinBuffers(cities, []domain.StationBuffer{}))
}

func TestCitiesWithinBuffers_NoCities(t *testing.T) {
	buffers := mustBuffers(t, []domain.Station{metricStation("s1", 0, 0)}, 50000)
	assert.Empty(t, pipeline.CitiesWithinBuffers(nil, buffers))
}
