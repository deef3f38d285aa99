// Package domain models the spatial entities flowing through the snowbelt
// analysis pipeline.
//
// # Data Sources
//
// The digital elevation model (DEM) is an ESRI ASCII grid (.asc): a plain-text
// header (ncols, nrows, xllcorner, yllcorner, cellsize, optional NODATA_value)
// followed by row-major elevation samples in meters, northernmost row first.
// Neither the ASC format nor RFC 7946 GeoJSON carries a usable coordinate
// reference system, so every layer's frame is declared explicitly in
// configuration rather than guessed from the file.
//
// Vector layers are GeoJSON feature collections:
//
//	stations:  Point features with "id", "name" and "duration_days" properties.
//	           duration_days is the number of days per season with snow cover
//	           reported by the station.
//	cities:    Point features with "name" and "population" properties.
//	counties:  Polygon or MultiPolygon features with a "name" property.
//
// # Reference Frames
//
// A ReferenceFrame identifies a coordinate system by EPSG code. Any operation
// that compares two entities (distance, buffer radius in meters,
// point-in-polygon) requires both operands in the same frame; the pipeline
// reprojects layers into a single metric working frame before combining them
// and back into WGS-84 for the output tables. Buffer radii and the elevation
// raster are only meaningful in a projected metric frame, never in raw
// longitude/latitude degrees.
//
// # No-Data Elevation
//
// A station outside the DEM's covered extent gets an Elevation with
// Valid=false instead of a sentinel number such as -9999. Sentinels leak into
// numeric comparisons silently; the tagged value forces the threshold filter
// to treat "unknown" and "low" differently. Stations with an invalid
// elevation can never pass the filter, whatever their duration.
//
// # Thresholds
//
// The elevation, duration, and buffer-radius cutoffs are policy choices, not
// engineering constants, so they live in configuration with defaults of
// 50 m, 100 days, and 50 km. Both threshold comparisons are strict: a station
// sitting exactly on a cutoff is excluded.
package domain
