package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelFor partitions indices into up to numWorkers contiguous chunks and
// runs fn over each chunk concurrently, blocking until every worker joins:
// the only suspension point is the parallel-for join barrier. For
// numWorkers <= 1 or fewer than two indices it runs sequentially in the
// calling goroutine, avoiding goroutine overhead for tiny ranks.
func parallelFor(ctx context.Context, indices []uint32, numWorkers int, fn func(uint32)) error {
	if len(indices) == 0 {
		return nil
	}
	if numWorkers <= 1 || len(indices) < 2 {
		for _, idx := range indices {
			fn(idx)
		}
		return nil
	}

	workers := numWorkers
	if workers > len(indices) {
		workers = len(indices)
	}

	g, _ := errgroup.WithContext(ctx)
	total := len(indices)
	base := total / workers
	rem := total % workers
	begin := 0
	for w := 0; w < workers; w++ {
		chunk := base
		if w < rem {
			chunk++
		}
		start, end := begin, begin+chunk
		begin = end
		g.Go(func() error {
			for _, idx := range indices[start:end] {
				fn(idx)
			}
			return nil
		})
	}
	return g.Wait()
}
