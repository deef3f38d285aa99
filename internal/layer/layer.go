// Package layer reads the pipeline's heterogeneous spatial sources into
// typed records. Dynamic GeoJSON properties are narrowed at this boundary:
// a feature missing a required attribute fails the load instead of carrying
// an untyped hole through the pipeline.
package layer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/raster"
)

// Set holds all loaded layers, each tagged with its source frame.
type Set struct {
	DEM      *raster.Field
	Stations []domain.Station
	Cities   []domain.City
	Counties []domain.County
}

// FileLoader reads the DEM and the three vector layers from local files.
// It implements pipeline.LayerLoader.
type FileLoader struct {
	demPath      string
	demFrame     domain.ReferenceFrame
	stationsPath string
	citiesPath   string
	countiesPath string
	vectorFrame  domain.ReferenceFrame
	logger       *slog.Logger
}

// NewFileLoader creates a loader for the given source paths. The frames are
// explicit configuration because neither ASC nor GeoJSON declares one.
func NewFileLoader(demPath string, demFrame domain.ReferenceFrame, stationsPath, citiesPath, countiesPath string, vectorFrame domain.ReferenceFrame, logger *slog.Logger) *FileLoader {
	return &FileLoader{
		demPath:      demPath,
		demFrame:     demFrame,
		stationsPath: stationsPath,
		citiesPath:   citiesPath,
		countiesPath: countiesPath,
		vectorFrame:  vectorFrame,
		logger:       logger,
	}
}

// Load reads all four sources. Any unreadable or malformed source is a
// SourceReadError; there is no partial result.
func (l *FileLoader) Load(ctx context.Context) (Set, error) {
	if err := ctx.Err(); err != nil {
		return Set{}, err
	}

	dem, err := l.loadDEM()
	if err != nil {
		return Set{}, err
	}

	stations, err := loadVector(l.stationsPath, func(data []byte) ([]domain.Station, error) {
		return Stations(data, l.vectorFrame)
	})
	if err != nil {
		return Set{}, err
	}

	cities, err := loadVector(l.citiesPath, func(data []byte) ([]domain.City, error) {
		return Cities(data, l.vectorFrame)
	})
	if err != nil {
		return Set{}, err
	}

	counties, err := loadVector(l.countiesPath, func(data []byte) ([]domain.County, error) {
		return Counties(data, l.vectorFrame)
	})
	if err != nil {
		return Set{}, err
	}

	cols, rows := dem.Size()
	l.logger.Info("layers loaded",
		"dem_cols", cols,
		"dem_rows", rows,
		"dem_frame", dem.Frame().String(),
		"stations", len(stations),
		"cities", len(cities),
		"counties", len(counties),
	)

	return Set{DEM: dem, Stations: stations, Cities: cities, Counties: counties}, nil
}

func (l *FileLoader) loadDEM() (*raster.Field, error) {
	f, err := os.Open(l.demPath)
	if err != nil {
		return nil, &domain.SourceReadError{Source: l.demPath, Err: err}
	}
	defer f.Close()

	dem, err := raster.ReadASC(f, l.demFrame)
	if err != nil {
		return nil, &domain.SourceReadError{Source: l.demPath, Err: err}
	}
	return dem, nil
}

func loadVector[T any](path string, parse func([]byte) ([]T, error)) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.SourceReadError{Source: path, Err: err}
	}
	records, err := parse(data)
	if err != nil {
		return nil, &domain.SourceReadError{Source: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &domain.SourceReadError{Source: path, Err: fmt.Errorf("no features")}
	}
	return records, nil
}
