package assign

import (
	"runtime"
	"sync"
)

// WorkItem holds a decoded read ready for assignment. Seq numbers the item
// within its input stream so results can be re-ordered after the pool.
type WorkItem struct {
	Seq    int
	ReadID string
	Info   *AlignmentInfo
}

// WorkResult holds the assignment output for a single read.
type WorkResult struct {
	Seq        int
	ReadID     string
	Assignment *ReadAssignment
}

// AssignFunc produces the assignment for one decoded read.
type AssignFunc func(readID string, info *AlignmentInfo) *ReadAssignment

// RunPool fans work items out to a pool of workers running fn and returns
// the result channel. Results arrive in completion order, not sequence
// order; use OrderedCollect to restore the input order. The channel closes
// once items is closed and all workers have drained. If workers is 0,
// runtime.NumCPU() is used.
func RunPool(items <-chan WorkItem, workers int, fn AssignFunc) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:        item.Seq,
					ReadID:     item.ReadID,
					Assignment: fn(item.ReadID, item.Info),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// ParallelAssign runs a worker pool assigning every item against the
// resolver's gene.
func (r *Resolver) ParallelAssign(items <-chan WorkItem, workers int) <-chan WorkResult {
	return RunPool(items, workers, r.AssignToIsoform)
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering results that arrive early. After fn fails, the remaining
// results are received and discarded so the workers can finish. Blocks
// until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	var firstErr error
	pending := make(map[int]WorkResult)
	next := 0

	for res := range results {
		if firstErr != nil {
			continue
		}
		pending[res.Seq] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := fn(r); err != nil {
				firstErr = err
				break
			}
		}
	}
	return firstErr
}
