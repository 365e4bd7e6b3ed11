package batch

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unicode/utf8"

	"fakenews_detector/internal/classify"
)

// DefaultMaxItems is the whole-batch size policy.
const DefaultMaxItems = 50

var (
	ErrEmptyBatch    = errors.New("batch is empty")
	ErrBatchTooLarge = errors.New("batch exceeds maximum item count")
)

// Result is one item's outcome, tagged with its original position. TextLength
// counts characters, not bytes.
type Result struct {
	Index      int
	Outcome    classify.Outcome
	TextLength int
}

// Func classifies a single item. It must be safe for concurrent use.
type Func func(text string) classify.Outcome

// Run fans the classification pipeline out over independent items and
// reassembles results in input order. Size violations reject the whole batch;
// after that, items are fully isolated from each other: a panic while scoring
// one item becomes a degraded UNCERTAIN result at that index and siblings are
// unaffected.
func Run(items []string, maxItems, workers int, fn Func) ([]Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(items) > maxItems {
		return nil, fmt.Errorf("%w: %d items, maximum is %d", ErrBatchTooLarge, len(items), maxItems)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]Result, len(items))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Result{
					Index:      i,
					Outcome:    guarded(fn, items[i]),
					TextLength: utf8.RuneCountInString(items[i]),
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func guarded(fn Func, text string) (out classify.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = classify.Outcome{
				Label:      classify.LabelUncertain,
				Confidence: 0.5,
				Degraded:   true,
				Reason:     fmt.Sprintf("scoring failed: %v", r),
			}
		}
	}()
	return fn(text)
}
