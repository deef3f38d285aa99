package pipeline

import (
	"context"
	"sync"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/raster"
)

// SampleElevations attaches a bilinear elevation sample from the field to
// every station. Stations must be in the field's frame. Per-station sampling
// is independent and read-only against the field, so it fans out across a
// bounded worker pool; each worker writes only its own output slots. Input
// order is preserved.
//
// Stations left unsampled by an early context cancellation keep an invalid
// elevation; callers abort on ctx.Err before using a partial result.
func SampleElevations(ctx context.Context, field *raster.Field, stations []domain.Station, workers int) []domain.Station {
	out := make([]domain.Station, len(stations))
	copy(out, stations)

	if workers < 1 {
		workers = 1
	}
	if workers > len(out) {
		workers = len(out)
	}
	if len(out) == 0 {
		return out
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				out[i].Elevation = field.Sample(out[i].Point)
			}
		}()
	}

	for i := range out {
		select {
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return out
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return out
}
