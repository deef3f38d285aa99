package pipeline

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// rtree tuning: minimum and maximum children per node.
const (
	rtreeMin = 25
	rtreeMax = 50
)

// bufferEntry indexes one buffer's bounding box in the R-tree.
type bufferEntry struct {
	buffer domain.StationBuffer
	rect   rtreego.Rect
}

func (e *bufferEntry) Bounds() rtreego.Rect { return e.rect }

// CitiesWithinBuffers returns every city lying inside at least one station
// buffer. Cities and buffers must share one frame. The R-tree narrows each
// city to candidate buffers by bounding box; the exact test is a
// point-in-polygon check. A city inside several buffers appears once, and
// input order is preserved, so identical inputs always produce identical
// output. An empty result is not an error.
func CitiesWithinBuffers(cities []domain.City, buffers []domain.StationBuffer) []domain.City {
	if len(buffers) == 0 {
		return nil
	}

	tree := rtreego.NewTree(2, rtreeMin, rtreeMax)
	for i := range buffers {
		b := buffers[i].Polygon.Bound()
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.Min[0], b.Min[1]},
			rtreego.Point{b.Max[0], b.Max[1]},
		)
		if err != nil {
			// Degenerate bound; fall back to a point rect at the min corner.
			rect = rtreego.Point{b.Min[0], b.Min[1]}.ToRect(1e-9)
		}
		tree.Insert(&bufferEntry{buffer: buffers[i], rect: rect})
	}

	matched := make([]domain.City, 0, len(cities))
	for _, city := range cities {
		probe := rtreego.Point{city.Point[0], city.Point[1]}.ToRect(1e-9)
		for _, candidate := range tree.SearchIntersect(probe) {
			entry := candidate.(*bufferEntry)
			if containsPoint(entry.buffer.Polygon, city.Point) {
				matched = append(matched, city)
				break
			}
		}
	}
	return matched
}

// containsPoint is a boundary-inclusive point-in-polygon test.
func containsPoint(pg orb.Polygon, p orb.Point) bool {
	return planar.PolygonContains(pg, p)
}
