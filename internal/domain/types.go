package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ReferenceFrame identifies a coordinate reference system by EPSG code.
type ReferenceFrame struct {
	EPSG int
}

// Frames used throughout the pipeline. WGS84 is the geographic output frame;
// the working frame for metric operations comes from configuration.
var (
	// WGS84 is geographic longitude/latitude in degrees (EPSG:4326).
	WGS84 = ReferenceFrame{EPSG: 4326}

	// WebMercator is the spherical Mercator projection in meters (EPSG:3857).
	WebMercator = ReferenceFrame{EPSG: 3857}

	// ConusAlbers is the NAD83 CONUS Albers equal-area projection in meters
	// (EPSG:5070), the default metric working frame.
	ConusAlbers = ReferenceFrame{EPSG: 5070}
)

func (f ReferenceFrame) String() string {
	return fmt.Sprintf("EPSG:%d", f.EPSG)
}

// IsGeographic reports whether coordinates in this frame are degrees rather
// than meters.
func (f ReferenceFrame) IsGeographic() bool {
	return f.EPSG == WGS84.EPSG
}

// Elevation is a sampled raster value tagged with validity. Valid is false
// when the sample point fell outside the raster's covered extent or hit a
// no-data cell.
type Elevation struct {
	Meters float64
	Valid  bool
}

// Station is a snow station point with its season-duration attribute and,
// after sampling, its elevation.
type Station struct {
	ID           string
	Name         string
	Point        orb.Point
	Frame        ReferenceFrame
	DurationDays float64
	Elevation    Elevation
}

// City is a populated place point.
type City struct {
	Name       string
	Point      orb.Point
	Frame      ReferenceFrame
	Population int64
}

// County is an administrative boundary polygon.
type County struct {
	Name     string
	Boundary orb.MultiPolygon
	Frame    ReferenceFrame
}

// StationBuffer is the disk polygon generated around a filtered station,
// expressed in a metric frame. The outer ring is closed and wound
// counterclockwise.
type StationBuffer struct {
	StationID    string
	RadiusMeters float64
	Polygon      orb.Polygon
	Frame        ReferenceFrame
}
