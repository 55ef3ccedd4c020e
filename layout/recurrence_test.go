package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/didymo/lrvsp/model"
)

func rectKey(r model.Rect) model.Rect { return r }

func sameRect(a, b model.Rect) bool { return a == b }

func TestCountPairsLowerTriangle(t *testing.T) {
	a := model.Rect{X0: 0, Y0: 0, X1: 10, Y1: 1}
	b := model.Rect{X0: 0, Y0: 5, X1: 10, Y1: 6}

	counts := countPairs([]model.Rect{a, a, a, b}, sameRect, rectKey, 1)

	// three copies of a give three unordered pairs; b matches nothing
	if counts[a] != 3 {
		t.Errorf("count[a] = %d, want 3", counts[a])
	}
	if _, ok := counts[b]; ok {
		t.Errorf("count[b] = %d, want absent", counts[b])
	}
}

func TestCountPairsNeverSelf(t *testing.T) {
	a := model.Rect{X0: 1, Y0: 1, X1: 2, Y1: 2}
	counts := countPairs([]model.Rect{a}, sameRect, rectKey, 1)
	if len(counts) != 0 {
		t.Errorf("single item produced counts %v", counts)
	}
}

func TestCountPairsParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	pool := []model.Rect{
		{X0: 0, Y0: 780, X1: 612, Y1: 792},
		{X0: 50, Y0: 782, X1: 560, Y1: 790},
		{X0: 0, Y0: 10, X1: 612, Y1: 12},
		{X0: 72, Y0: 40, X1: 300, Y1: 52},
	}
	items := make([]model.Rect, 500)
	for i := range items {
		items[i] = pool[rng.IntN(len(pool))]
	}

	want := countPairs(items, sameRect, rectKey, 1)
	for _, workers := range []int{2, 3, 8} {
		got := countPairs(items, sameRect, rectKey, workers)
		if len(got) != len(want) {
			t.Fatalf("workers=%d: %d keys, want %d", workers, len(got), len(want))
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("workers=%d: count[%v] = %d, want %d", workers, k, got[k], v)
			}
		}
	}
}

func TestAcceptedSorted(t *testing.T) {
	low := model.Rect{X0: 0, Y0: 700, X1: 10, Y1: 710}
	high := model.Rect{X0: 0, Y0: 10, X1: 10, Y1: 20}
	counts := RecurrenceCount{low: 100, high: 100, {X0: 5, Y0: 5, X1: 6, Y1: 6}: 1}

	got := counts.Accepted(DefaultConfig().LineThreshold, 15)
	if len(got) != 2 {
		t.Fatalf("Accepted() = %v, want 2 rects", got)
	}
	if got[0] != high || got[1] != low {
		t.Errorf("Accepted() = %v, want top to bottom", got)
	}
}
