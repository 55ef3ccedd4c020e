package layout

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/didymo/lrvsp/model"
)

// RecurrenceCount maps a canonical rectangle to the number of matched pairs
// in which it was the first (row) element.
type RecurrenceCount map[model.Rect]int

// countPairs evaluates same over the strict lower triangle of the pairwise
// matrix of items: every unordered pair (i, j), j < i, exactly once, and no
// item against itself. Each match increments the count of key(items[i]).
//
// Rows are split across up to workers goroutines; the comparison is pure so
// the result does not depend on the number of workers.
func countPairs[T any](items []T, same func(a, b T) bool, key func(T) model.Rect, workers int) RecurrenceCount {
	if workers < 2 || len(items) < 64 {
		counts := make(RecurrenceCount)
		countRows(items, 1, len(items), same, key, counts)
		return counts
	}

	partials := make([]RecurrenceCount, workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		partials[w] = make(RecurrenceCount)
		g.Go(func() error {
			// interleave rows so the triangle's growing row length is shared
			for i := 1 + w; i < len(items); i += workers {
				countRows(items, i, i+1, same, key, partials[w])
			}
			return nil
		})
	}
	_ = g.Wait()

	counts := make(RecurrenceCount)
	for _, p := range partials {
		for r, n := range p {
			counts[r] += n
		}
	}
	return counts
}

func countRows[T any](items []T, from, to int, same func(a, b T) bool, key func(T) model.Rect, counts RecurrenceCount) {
	for i := from; i < to; i++ {
		for j := 0; j < i; j++ {
			if same(items[i], items[j]) {
				counts[key(items[i])]++
			}
		}
	}
}

// Accepted returns the rectangles whose count clears rule for pageCount
// sampled pages, sorted top to bottom then left to right.
func (c RecurrenceCount) Accepted(rule ThresholdRule, pageCount int) []model.Rect {
	var rects []model.Rect
	for r, n := range c {
		if rule.Accept(n, pageCount) {
			rects = append(rects, r)
		}
	}
	sort.Slice(rects, func(i, j int) bool {
		a, b := rects[i], rects[j]
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		if a.X0 != b.X0 {
			return a.X0 < b.X0
		}
		if a.Y1 != b.Y1 {
			return a.Y1 < b.Y1
		}
		return a.X1 < b.X1
	})
	return rects
}
