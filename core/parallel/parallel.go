// Package parallel splits row-wise work into contiguous ranges and runs them
// on separate goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count at or below which For stays on the
// calling goroutine.
const DefaultThreshold = 2048

// For calls fn on disjoint [start, end) ranges that together cover [0, n).
// fn must only touch state owned by its range.
func For(n int, fn func(start, end int)) {
	ForThreshold(n, DefaultThreshold, fn)
}

// ForThreshold is For with an explicit sequential threshold.
func ForThreshold(n, threshold int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n <= threshold || workers == 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
