package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Source layers and their declared frames. ASC and GeoJSON carry no
	// CRS, so the frames are configuration, not inference.
	DEMPath      string
	DEMEPSG      int
	StationsPath string
	CitiesPath   string
	CountiesPath string
	VectorEPSG   int

	// Analysis policy.
	WorkEPSG           int
	WarpCellMeters     float64
	MinElevationMeters float64
	MinDurationDays    float64
	BufferRadiusMeters float64
	SampleWorkers      int

	// Sinks.
	OutputDir    string
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Operational surface.
	HTTPEnabled     bool
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	warpCell, err := parsePositiveFloat("WARP_CELL_M", 1000)
	if err != nil {
		return nil, err
	}
	minElevation, err := parseFloat("MIN_ELEVATION_M", 50)
	if err != nil {
		return nil, err
	}
	minDuration, err := parseFloat("MIN_DURATION_DAYS", 100)
	if err != nil {
		return nil, err
	}
	bufferRadius, err := parsePositiveFloat("BUFFER_RADIUS_M", 50000)
	if err != nil {
		return nil, err
	}
	sampleWorkers, err := parsePositiveInt("SAMPLE_WORKERS", 8)
	if err != nil {
		return nil, err
	}

	demEPSG, err := parsePositiveInt("DEM_EPSG", 4326)
	if err != nil {
		return nil, err
	}
	vectorEPSG, err := parsePositiveInt("VECTOR_EPSG", 4326)
	if err != nil {
		return nil, err
	}
	workEPSG, err := parsePositiveInt("WORK_EPSG", 5070)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := envOrDefault("KAFKA_ENABLED", "false") == "true"

	cfg := &Config{
		DEMPath:      envOrDefault("DEM_PATH", "./data/dem.asc"),
		DEMEPSG:      demEPSG,
		StationsPath: envOrDefault("STATIONS_PATH", "./data/stations.geojson"),
		CitiesPath:   envOrDefault("CITIES_PATH", "./data/cities.geojson"),
		CountiesPath: envOrDefault("COUNTIES_PATH", "./data/counties.geojson"),
		VectorEPSG:   vectorEPSG,

		WorkEPSG:           workEPSG,
		WarpCellMeters:     warpCell,
		MinElevationMeters: minElevation,
		MinDurationDays:    minDuration,
		BufferRadiusMeters: bufferRadius,
		SampleWorkers:      sampleWorkers,

		OutputDir:    envOrDefault("OUTPUT_DIR", "./out"),
		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "snowbelt-results"),

		HTTPEnabled:     envOrDefault("HTTP_ENABLED", "false") == "true",
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DEMPath == "" {
		return nil, errors.New("DEM_PATH is required")
	}
	if cfg.StationsPath == "" || cfg.CitiesPath == "" || cfg.CountiesPath == "" {
		return nil, errors.New("STATIONS_PATH, CITIES_PATH, and COUNTIES_PATH are required")
	}
	if cfg.WorkEPSG == 4326 {
		return nil, errors.New("WORK_EPSG must be a projected metric frame, not EPSG:4326")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	v, err := parseFloat(key, def)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return v, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
