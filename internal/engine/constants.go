package engine

// Parallel scheduling
const (
	// chunksPerWorker splits each worker's share of lines into several
	// tasks so uneven line costs still balance.
	chunksPerWorker = 4

	// minParallelLines is the smallest line count worth fanning out.
	minParallelLines = 8
)
