package blockdct

import (
	"runtime"
	"sync"
)

var (
	workerSemOnce sync.Once
	workerSem     chan struct{}
)

// parallelFor splits [0, total) into contiguous chunks and runs fn on them
// with at most maxWorkers goroutines (0 means GOMAXPROCS). All calls share a
// process-wide semaphore so nested or concurrent pipelines stay bounded.
func parallelFor(total, maxWorkers int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	capacity := runtime.GOMAXPROCS(0)
	if maxWorkers > 0 && capacity > maxWorkers {
		capacity = maxWorkers
	}
	if capacity < 1 {
		capacity = 1
	}
	workerSemOnce.Do(func() {
		workerSem = make(chan struct{}, runtime.GOMAXPROCS(0))
	})
	if cap(workerSem) < capacity {
		capacity = max(cap(workerSem), 1)
	}
	workers := min(capacity, total)
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * step
		end := min(start+step, total)
		if start >= end {
			break
		}
		workerSem <- struct{}{}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() { <-workerSem }()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
