// Command genfixtures writes a synthetic dataset for local runs and demos:
// a cone-shaped DEM in ASC format plus station, city, and county GeoJSON
// layers arranged around the peak. The layers use the same loaders' property
// conventions as real data, so the generated files exercise the full
// pipeline.
//
// Usage:
//
//	go run ./cmd/genfixtures -out ./data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/geodesy"
)

// Fixture geography: a synthetic massif in central Colorado.
var peak = orb.Point{-106.0, 39.0}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "./data", "output directory for fixture files")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeDEM(filepath.Join(*out, "dem.asc")); err != nil {
		return err
	}
	if err := writeStations(filepath.Join(*out, "stations.geojson")); err != nil {
		return err
	}
	if err := writeCities(filepath.Join(*out, "cities.geojson")); err != nil {
		return err
	}
	if err := writeCounties(filepath.Join(*out, "counties.geojson")); err != nil {
		return err
	}

	fmt.Printf("fixtures written to %s\n", *out)
	return nil
}

// writeDEM emits a 200x200 cone: 3500 m at the peak falling off linearly to
// 1000 m at the grid edge, one degree of extent, WGS-84.
func writeDEM(path string) error {
	const (
		cols = 200
		rows = 200
		cell = 0.005 // degrees
	)
	xll := peak[0] - float64(cols)/2*cell
	yll := peak[1] - float64(rows)/2*cell

	var b strings.Builder
	fmt.Fprintf(&b, "ncols %d\n", cols)
	fmt.Fprintf(&b, "nrows %d\n", rows)
	fmt.Fprintf(&b, "xllcorner %g\n", xll)
	fmt.Fprintf(&b, "yllcorner %g\n", yll)
	fmt.Fprintf(&b, "cellsize %g\n", cell)
	fmt.Fprintf(&b, "NODATA_value -9999\n")

	maxDist := float64(cols) / 2 * cell
	for row := 0; row < rows; row++ {
		y := yll + (float64(rows-row)-0.5)*cell
		for col := 0; col < cols; col++ {
			x := xll + (float64(col)+0.5)*cell
			d := math.Hypot(x-peak[0], y-peak[1])
			elev := 3500 - 2500*math.Min(d/maxDist, 1)
			if col > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.1f", elev)
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeStations(path string) error {
	fc := geojson.NewFeatureCollection()
	// Ring of stations around the peak: the closer to the peak, the higher
	// the sampled elevation and the longer the snow season.
	for i, dist := range []float64{5000, 15000, 30000, 45000, 52000} {
		pt := geodesy.Destination(peak, float64(i)*72, dist)
		f := geojson.NewFeature(pt)
		f.Properties = geojson.Properties{
			"id":            fmt.Sprintf("snotel-%03d", i+1),
			"name":          fmt.Sprintf("Ridge Site %d", i+1),
			"duration_days": 180 - dist/400,
		}
		fc.Append(f)
	}
	// One station far outside the DEM extent, to exercise no-data exclusion.
	f := geojson.NewFeature(geodesy.Destination(peak, 90, 200000))
	f.Properties = geojson.Properties{
		"id":            "snotel-999",
		"name":          "Out Of Extent",
		"duration_days": 170.0,
	}
	fc.Append(f)
	return writeCollection(path, fc)
}

func writeCities(path string) error {
	cities := []struct {
		name    string
		bearing float64
		dist    float64
		pop     int64
	}{
		{"Alpine Junction", 45, 20000, 12000},
		{"Silver Basin", 160, 35000, 4100},
		{"Eastmoor", 100, 70000, 56000},
		{"Far Plains", 270, 120000, 8800},
	}
	fc := geojson.NewFeatureCollection()
	for _, c := range cities {
		f := geojson.NewFeature(geodesy.Destination(peak, c.bearing, c.dist))
		f.Properties = geojson.Properties{
			"name":       c.name,
			"population": c.pop,
		}
		fc.Append(f)
	}
	return writeCollection(path, fc)
}

// writeCounties splits the fixture area into a west and an east county along
// the peak's meridian.
func writeCounties(path string) error {
	fc := geojson.NewFeatureCollection()
	for _, c := range []struct {
		name       string
		minX, maxX float64
	}{
		{"West Ridge County", peak[0] - 1, peak[0]},
		{"East Ridge County", peak[0], peak[0] + 1},
	} {
		ring := orb.Ring{
			{c.minX, peak[1] - 1},
			{c.maxX, peak[1] - 1},
			{c.maxX, peak[1] + 1},
			{c.minX, peak[1] + 1},
			{c.minX, peak[1] - 1},
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties = geojson.Properties{"name": c.name}
		fc.Append(f)
	}
	return writeCollection(path, fc)
}

func writeCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
