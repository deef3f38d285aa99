// Package frame transforms coordinates between reference frames. It wraps
// the proj4-string transform engine from github.com/ctessum/geom/proj behind
// an EPSG registry, operating on orb geometries.
package frame

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// proj4 maps EPSG codes to their proj4 definition strings. Register adds
// entries at runtime for frames the defaults don't cover.
var (
	proj4Mu sync.RWMutex
	proj4   = map[int]string{
		4326: "+proj=longlat +datum=WGS84 +no_defs",
		3857: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
		5070: "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +datum=NAD83 +units=m +no_defs",
	}
)

// Register adds or replaces the proj4 definition for an EPSG code.
func Register(epsg int, def string) {
	proj4Mu.Lock()
	defer proj4Mu.Unlock()
	proj4[epsg] = def
}

func definition(f domain.ReferenceFrame) (string, bool) {
	proj4Mu.RLock()
	defer proj4Mu.RUnlock()
	def, ok := proj4[f.EPSG]
	return def, ok
}

// Reprojector builds and caches coordinate transforms between frames.
// Safe for concurrent use.
type Reprojector struct {
	mu    sync.Mutex
	cache map[[2]int]proj.Transformer
}

// NewReprojector creates an empty Reprojector.
func NewReprojector() *Reprojector {
	return &Reprojector{cache: make(map[[2]int]proj.Transformer)}
}

// Transformer returns the coordinate transform from one frame to another,
// or an UnsupportedFrameError when either frame is unknown or no transform
// path exists. Identical frames yield the identity transform, which makes
// every reprojection idempotent.
func (r *Reprojector) Transformer(from, to domain.ReferenceFrame) (proj.Transformer, error) {
	if from.EPSG == to.EPSG {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]int{from.EPSG, to.EPSG}
	if t, ok := r.cache[key]; ok {
		return t, nil
	}

	srcDef, ok := definition(from)
	if !ok {
		return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: fmt.Errorf("unknown frame %s", from)}
	}
	dstDef, ok := definition(to)
	if !ok {
		return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: fmt.Errorf("unknown frame %s", to)}
	}

	srcSR, err := proj.Parse(srcDef)
	if err != nil {
		return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
	}
	dstSR, err := proj.Parse(dstDef)
	if err != nil {
		return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
	}

	t, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
	}
	r.cache[key] = t
	return t, nil
}

// Point transforms a single coordinate pair.
func (r *Reprojector) Point(p orb.Point, from, to domain.ReferenceFrame) (orb.Point, error) {
	t, err := r.Transformer(from, to)
	if err != nil {
		return orb.Point{}, err
	}
	x, y, err := t(p[0], p[1])
	if err != nil {
		return orb.Point{}, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
	}
	return orb.Point{x, y}, nil
}

// Ring transforms every vertex of a ring.
func (r *Reprojector) Ring(ring orb.Ring, from, to domain.ReferenceFrame) (orb.Ring, error) {
	t, err := r.Transformer(from, to)
	if err != nil {
		return nil, err
	}
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		x, y, err := t(p[0], p[1])
		if err != nil {
			return nil, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
		}
		out[i] = orb.Point{x, y}
	}
	return out, nil
}

// Polygon transforms every ring of a polygon.
func (r *Reprojector) Polygon(pg orb.Polygon, from, to domain.ReferenceFrame) (orb.Polygon, error) {
	out := make(orb.Polygon, len(pg))
	for i, ring := range pg {
		transformed, err := r.Ring(ring, from, to)
		if err != nil {
			return nil, err
		}
		out[i] = transformed
	}
	return out, nil
}

// MultiPolygon transforms every polygon of a multipolygon.
func (r *Reprojector) MultiPolygon(mp orb.MultiPolygon, from, to domain.ReferenceFrame) (orb.MultiPolygon, error) {
	out := make(orb.MultiPolygon, len(mp))
	for i, pg := range mp {
		transformed, err := r.Polygon(pg, from, to)
		if err != nil {
			return nil, err
		}
		out[i] = transformed
	}
	return out, nil
}
