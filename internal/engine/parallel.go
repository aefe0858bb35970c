package engine

import (
	"runtime"

	"github.com/remeh/sizedwaitgroup"
)

// Workers resolves a requested worker count: 0 means GOMAXPROCS and any
// value below 1 means sequential.
func Workers(requested int) int {
	if requested == 0 {
		return runtime.GOMAXPROCS(0)
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// forEachChunk calls fn over contiguous index ranges covering [0, n).
// With more than one worker the ranges run concurrently, bounded by a sized
// wait group. Each call to fn owns its range and must allocate its own
// scratch buffers; results are identical to the sequential order.
func forEachChunk(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n < minParallelLines {
		fn(0, n)
		return
	}

	tasks := workers * chunksPerWorker
	chunk := (n + tasks - 1) / tasks

	swg := sizedwaitgroup.New(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		swg.Add()
		go func(start, end int) {
			defer swg.Done()
			fn(start, end)
		}(start, end)
	}
	swg.Wait()
}
