// Package pipeline runs the snowbelt analysis: load layers, reproject into a
// metric working frame, sample elevations, filter by thresholds, buffer the
// survivors, join cities against the buffers, and hand the result tables to
// the configured sinks. Stages run strictly forward; each consumes its input
// fully before the next begins.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/frame"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/geodesy"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/layer"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/observability"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/raster"
)

// LayerLoader reads all spatial sources into typed layers.
type LayerLoader interface {
	Load(ctx context.Context) (layer.Set, error)
}

// ResultSink receives the finished result tables. The pipeline makes no
// assumption about what a sink does with them.
type ResultSink interface {
	Name() string
	Publish(ctx context.Context, res domain.Result) error
}

// Params are the analysis policy knobs. The thresholds are strict lower
// bounds; WorkFrame must be a projected metric frame.
type Params struct {
	WorkFrame          domain.ReferenceFrame
	WarpCellMeters     float64
	MinElevationMeters float64
	MinDurationDays    float64
	BufferRadiusMeters float64
	SampleWorkers      int
}

// Pipeline orchestrates one analysis run.
type Pipeline struct {
	loader  LayerLoader
	reproj  *frame.Reprojector
	sinks   []ResultSink
	params  Params
	logger  *slog.Logger
	metrics *observability.Metrics

	ready atomic.Bool

	mu      sync.Mutex
	summary domain.Summary
}

// New creates a Pipeline with the given stages and observability.
func New(loader LayerLoader, reproj *frame.Reprojector, sinks []ResultSink, params Params, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:  loader,
		reproj:  reproj,
		sinks:   sinks,
		params:  params,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("analysis has not completed yet")
	}
	return nil
}

// Summary returns the counts from the most recent completed run.
func (p *Pipeline) Summary() domain.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

// Run executes the full analysis once and publishes the result to every
// sink. Load and transform errors are fatal; the only locally recovered
// condition is a per-station no-data elevation sample, which is excluded
// from the filtered set and reported.
func (p *Pipeline) Run(ctx context.Context) (domain.Result, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("analysis started",
		"work_frame", p.params.WorkFrame.String(),
		"min_elevation_m", p.params.MinElevationMeters,
		"min_duration_days", p.params.MinDurationDays,
		"buffer_radius_m", p.params.BufferRadiusMeters,
	)

	res, err := p.run(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.Result{}, err
	}

	if err := p.publish(ctx, res); err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.Result{}, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.ready.Store(true)
	p.logger.Info("analysis complete",
		"stations", len(res.Stations),
		"cities", len(res.Cities),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Result, error) {
	layers, err := p.stage1Load(ctx)
	if err != nil {
		return domain.Result{}, err
	}

	dem, stations, cities, counties, err := p.stage2Reproject(layers)
	if err != nil {
		return domain.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	sampled, noData := p.stage3Sample(ctx, dem, stations)
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	kept := p.stage4Filter(sampled)

	buffers, err := p.stage5Buffer(kept)
	if err != nil {
		return domain.Result{}, err
	}

	matched := p.stage6Join(cities, buffers)

	res, err := p.assemble(kept, matched, counties)
	if err != nil {
		return domain.Result{}, err
	}

	p.mu.Lock()
	p.summary = domain.Summary{
		StationsLoaded:   len(stations),
		StationsNoData:   noData,
		StationsFiltered: len(kept),
		CitiesMatched:    len(matched),
		GeneratedAt:      res.GeneratedAt,
	}
	p.mu.Unlock()

	return res, nil
}

func (p *Pipeline) stage1Load(ctx context.Context) (layer.Set, error) {
	defer p.observeStage("load")()
	layers, err := p.loader.Load(ctx)
	if err != nil {
		return layer.Set{}, err
	}
	p.metrics.StationsLoaded.Set(float64(len(layers.Stations)))
	return layers, nil
}

// stage2Reproject moves every layer into the metric working frame. The DEM
// is warped with bilinear resampling; vector coordinates are rewritten in
// place with their frame tags updated.
func (p *Pipeline) stage2Reproject(layers layer.Set) (*raster.Field, []domain.Station, []domain.City, []domain.County, error) {
	defer p.observeStage("reproject")()
	work := p.params.WorkFrame

	dem, err := raster.Warp(layers.DEM, work, p.params.WarpCellMeters, p.reproj)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	stations := make([]domain.Station, len(layers.Stations))
	for i, s := range layers.Stations {
		pt, err := p.reproj.Point(s.Point, s.Frame, work)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		s.Point = pt
		s.Frame = work
		stations[i] = s
	}

	cities := make([]domain.City, len(layers.Cities))
	for i, c := range layers.Cities {
		pt, err := p.reproj.Point(c.Point, c.Frame, work)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		c.Point = pt
		c.Frame = work
		cities[i] = c
	}

	counties := make([]domain.County, len(layers.Counties))
	for i, c := range layers.Counties {
		mp, err := p.reproj.MultiPolygon(c.Boundary, c.Frame, work)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		c.Boundary = mp
		c.Frame = work
		counties[i] = c
	}

	return dem, stations, cities, counties, nil
}

func (p *Pipeline) stage3Sample(ctx context.Context, dem *raster.Field, stations []domain.Station) ([]domain.Station, int) {
	defer p.observeStage("sample")()
	sampled := SampleElevations(ctx, dem, stations, p.params.SampleWorkers)

	noData := CountNoData(sampled)
	p.metrics.StationsNoData.Set(float64(noData))
	if noData > 0 {
		p.logger.Warn("stations outside DEM extent excluded from filtering",
			"count", noData, "total", len(sampled))
	}
	return sampled, noData
}

func (p *Pipeline) stage4Filter(stations []domain.Station) []domain.Station {
	defer p.observeStage("filter")()
	kept := FilterStations(stations, p.params.MinDurationDays, p.params.MinElevationMeters)
	p.metrics.StationsFiltered.Set(float64(len(kept)))
	p.logger.Info("threshold filter applied", "in", len(stations), "kept", len(kept))
	return kept
}

func (p *Pipeline) stage5Buffer(stations []domain.Station) ([]domain.StationBuffer, error) {
	defer p.observeStage("buffer")()
	return BufferStations(stations, p.params.BufferRadiusMeters)
}

func (p *Pipeline) stage6Join(cities []domain.City, buffers []domain.StationBuffer) []domain.City {
	defer p.observeStage("join")()
	matched := CitiesWithinBuffers(cities, buffers)
	p.metrics.CitiesMatched.Set(float64(len(matched)))
	p.logger.Info("spatial join complete", "cities_in", len(cities), "matched", len(matched))
	return matched
}

// assemble reprojects the surviving records back to WGS-84 and builds the
// output tables: filtered stations tagged with their containing county, and
// matched cities tagged with their nearest station.
func (p *Pipeline) assemble(kept []domain.Station, matched []domain.City, counties []domain.County) (domain.Result, error) {
	defer p.observeStage("assemble")()

	stations := make([]domain.FilteredStation, 0, len(kept))
	geoStations := make([]domain.Station, 0, len(kept))
	for _, s := range kept {
		county := countyName(s, counties)
		geoPt, err := p.reproj.Point(s.Point, s.Frame, domain.WGS84)
		if err != nil {
			return domain.Result{}, err
		}
		stations = append(stations, domain.FilteredStation{
			ID:              s.ID,
			Name:            s.Name,
			Point:           geoPt,
			DurationDays:    s.DurationDays,
			ElevationMeters: s.Elevation.Meters,
			County:          county,
		})
		s.Point = geoPt
		s.Frame = domain.WGS84
		geoStations = append(geoStations, s)
	}

	cities := make([]domain.CityInRange, 0, len(matched))
	for _, c := range matched {
		geoPt, err := p.reproj.Point(c.Point, c.Frame, domain.WGS84)
		if err != nil {
			return domain.Result{}, err
		}
		row := domain.CityInRange{
			Name:       c.Name,
			Point:      geoPt,
			Population: c.Population,
		}
		if id, dist, ok := nearestStation(geoPt, geoStations); ok {
			row.NearestStationID = id
			row.NearestStationMeters = dist
		}
		cities = append(cities, row)
	}

	return domain.Result{
		Stations:    stations,
		Cities:      cities,
		GeneratedAt: domain.Now(),
	}, nil
}

func (p *Pipeline) publish(ctx context.Context, res domain.Result) error {
	defer p.observeStage("publish")()
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, res); err != nil {
			p.metrics.SinkPublishes.WithLabelValues(sink.Name(), "error").Inc()
			return err
		}
		p.metrics.SinkPublishes.WithLabelValues(sink.Name(), "success").Inc()
		p.logger.Info("result published", "sink", sink.Name())
	}
	return nil
}

// countyName finds the first county containing the station, if any. Station
// and counties are in the working frame here.
func countyName(s domain.Station, counties []domain.County) string {
	for _, c := range counties {
		if planar.MultiPolygonContains(c.Boundary, s.Point) {
			return c.Name
		}
	}
	return ""
}

// nearestStation scans the filtered stations for the geodesically closest
// one. Both sides are WGS-84 lon/lat here.
func nearestStation(city orb.Point, stations []domain.Station) (string, float64, bool) {
	best := ""
	bestDist := 0.0
	found := false
	for _, s := range stations {
		d := geodesy.Distance(city, s.Point)
		if !found || d < bestDist {
			best = s.ID
			bestDist = d
			found = true
		}
	}
	return best, bestDist, found
}

func (p *Pipeline) observeStage(stage string) func() {
	start := time.Now()
	return func() {
		p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
