package geojsonsink_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/sink/geojsonsink"
)

func testResult() domain.Result {
	return domain.Result{
		Stations: []domain.FilteredStation{
			{
				ID:              "snotel-001",
				Name:            "Ridge Site",
				Point:           orb.Point{-106.3, 39.1},
				DurationDays:    155,
				ElevationMeters: 2840.5,
				County:          "Summit County",
			},
		},
		Cities: []domain.CityInRange{
			{
				Name:                 "Alpine Junction",
				Point:                orb.Point{-106.0, 39.0},
				Population:           12000,
				NearestStationID:     "snotel-001",
				NearestStationMeters: 28000,
			},
		},
		GeneratedAt: time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC),
	}
}

func readCollection(t *testing.T, path string) *geojson.FeatureCollection {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	return fc
}

func TestPublish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := geojsonsink.New(dir, slog.Default())

	assert.Equal(t, "geojson", sink.Name())
	require.NoError(t, sink.Publish(context.Background(), testResult()))

	stations := readCollection(t, filepath.Join(dir, "filtered_stations.geojson"))
	require.Len(t, stations.Features, 1)
	f := stations.Features[0]
	assert.Equal(t, orb.Point{-106.3, 39.1}, f.Geometry.(orb.Point))
	assert.Equal(t, "snotel-001", f.Properties.MustString("id"))
	assert.Equal(t, "Summit County", f.Properties.MustString("county"))
	assert.InDelta(t, 2840.5, f.Properties.MustFloat64("elevation_m"), 1e-9)
	assert.InDelta(t, 155, f.Properties.MustFloat64("duration_days"), 1e-9)
	assert.Equal(t, "2026-02-10T12:00:00Z", f.Properties.MustString("generated_at"))

	cities := readCollection(t, filepath.Join(dir, "cities_in_range.geojson"))
	require.Len(t, cities.Features, 1)
	c := cities.Features[0]
	assert.Equal(t, "Alpine Junction", c.Properties.MustString("name"))
	assert.InDelta(t, 12000, c.Properties.MustFloat64("population"), 1e-9)
	assert.Equal(t, "snotel-001", c.Properties.MustString("nearest_station_id"))
	assert.InDelta(t, 28000, c.Properties.MustFloat64("nearest_station_m"), 1e-9)
}

func TestPublish_OptionalPropertiesOmitted(t *testing.T) {
	dir := t.TempDir()
	res := testResult()
	res.Stations[0].County = ""
	res.Cities[0].NearestStationID = ""

	require.NoError(t, geojsonsink.New(dir, slog.Default()).Publish(context.Background(), res))

	stations := readCollection(t, filepath.Join(dir, "filtered_stations.geojson"))
	_, hasCounty := stations.Features[0].Properties["county"]
	assert.False(t, hasCounty)

	cities := readCollection(t, filepath.Join(dir, "cities_in_range.geojson"))
	_, hasNearest := cities.Features[0].Properties["nearest_station_id"]
	assert.False(t, hasNearest)
}

func TestPublish_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	res := domain.Result{GeneratedAt: time.Now()}

	require.NoError(t, geojsonsink.New(dir, slog.Default()).Publish(context.Background(), res))

	stations := readCollection(t, filepath.Join(dir, "filtered_stations.geojson"))
	assert.Empty(t, stations.Features)
}

func TestPublish_UnwritableDir(t *testing.T) {
	sink := geojsonsink.New(filepath.Join(string(os.PathSeparator), "proc", "nope"), slog.Default())
	assert.Error(t, sink.Publish(context.Background(), testResult()))
}
