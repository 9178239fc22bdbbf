package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/source"
)

// LoadResult holds the output of parsing a set of ledger files.
type LoadResult struct {
	Batches     []model.Batch
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
	Errors      []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all ledger files under path without touching
// the ledger. It uses a bounded worker pool for parallel parsing.
func Load(path string, accrual source.AccrualFunc, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, accrual, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})
	for _, pr := range results {
		result.collect(pr)
	}
	return result, nil
}

func (r *LoadResult) collect(pr source.ParseResult) bool {
	if pr.Err != nil {
		r.FileErrors++
		r.Errors = append(r.Errors, pr.Err)
		return false
	}
	r.ParsedFiles++
	r.ParseErrors += pr.ParseErrors
	if !pr.Batch.Empty() {
		r.Batches = append(r.Batches, pr.Batch)
	}
	return true
}

// parseAll parses files with at most GOMAXPROCS workers and returns results
// in input order. onDone receives the running count of finished files.
func parseAll(files []source.DiscoveredFile, accrual source.AccrualFunc, onDone func(int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], accrual)
				n := processed.Add(1)
				if onDone != nil {
					onDone(int(n))
				}
			}
		}()
	}

	wg.Wait()
	return results
}
