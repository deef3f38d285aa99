// Package geojsonsink writes the result tables as GeoJSON feature
// collections for the rendering collaborator to pick up.
package geojsonsink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

const (
	stationsFile = "filtered_stations.geojson"
	citiesFile   = "cities_in_range.geojson"
)

// Sink writes two GeoJSON files into a directory.
// It implements pipeline.ResultSink.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// New creates a sink writing into dir, which is created if absent.
func New(dir string, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, logger: logger}
}

// Name implements pipeline.ResultSink.
func (s *Sink) Name() string { return "geojson" }

// Publish writes filtered_stations.geojson and cities_in_range.geojson.
func (s *Sink) Publish(_ context.Context, res domain.Result) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := s.writeCollection(stationsFile, stationCollection(res)); err != nil {
		return err
	}
	if err := s.writeCollection(citiesFile, cityCollection(res)); err != nil {
		return err
	}

	s.logger.Info("geojson written",
		"dir", s.dir,
		"stations", len(res.Stations),
		"cities", len(res.Cities),
	)
	return nil
}

func (s *Sink) writeCollection(name string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func stationCollection(res domain.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, st := range res.Stations {
		f := geojson.NewFeature(st.Point)
		f.Properties = geojson.Properties{
			"id":            st.ID,
			"name":          st.Name,
			"duration_days": st.DurationDays,
			"elevation_m":   st.ElevationMeters,
			"generated_at":  res.GeneratedAt.Format(time.RFC3339),
		}
		if st.County != "" {
			f.Properties["county"] = st.County
		}
		fc.Append(f)
	}
	return fc
}

func cityCollection(res domain.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range res.Cities {
		f := geojson.NewFeature(c.Point)
		f.Properties = geojson.Properties{
			"name":         c.Name,
			"population":   c.Population,
			"generated_at": res.GeneratedAt.Format(time.RFC3339),
		}
		if c.NearestStationID != "" {
			f.Properties["nearest_station_id"] = c.NearestStationID
			f.Properties["nearest_station_m"] = c.NearestStationMeters
		}
		fc.Append(f)
	}
	return fc
}
