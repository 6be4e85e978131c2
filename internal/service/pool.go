package service

import (
	"context"
	"sync"
)

// runIndexed runs fn(ctx, i) for every i in [0, n) on at most `workers`
// goroutines and blocks until all complete (join-then-sort: callers only
// look at results after the join). Each unit writes into its own indexed
// slot, so there is no shared mutable state and discovery order stays
// deterministic regardless of scheduling.
func runIndexed(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
