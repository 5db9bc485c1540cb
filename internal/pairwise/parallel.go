package pairwise

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ParallelRows executes fn(i) for every i in [0, n) on up to workers
// goroutines and returns once all calls have finished. Rows are claimed one at
// a time from a shared counter, so short rows near the end of the range do not
// leave workers idle.
func ParallelRows(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return nil
				}
				fn(i)
			}
		})
	}
	_ = g.Wait()
}
