package layout

import (
	"math/rand/v2"
	"testing"
)

func TestSampleWindowBounds(t *testing.T) {
	for pageCount := 1; pageCount <= 60; pageCount++ {
		for seed := uint64(0); seed < 25; seed++ {
			rng := rand.New(rand.NewPCG(seed, 7))
			w := SampleWindow(pageCount, 15, rng)

			if pageCount == 1 {
				if w != (Window{Start: 0, End: 1}) {
					t.Fatalf("SampleWindow(1) = %+v, want [0,1)", w)
				}
				continue
			}
			if w.Start < 1 {
				t.Fatalf("P=%d: window %+v includes the first page", pageCount, w)
			}
			if w.End > pageCount {
				t.Fatalf("P=%d: window %+v runs past the document", pageCount, w)
			}
			if w.Start > max(pageCount-15, 1) {
				t.Fatalf("P=%d: start %d above %d", pageCount, w.Start, max(pageCount-15, 1))
			}
			if w.Len() != SampleCount(pageCount, 15) {
				t.Fatalf("P=%d: window length %d, want %d", pageCount, w.Len(), SampleCount(pageCount, 15))
			}
		}
	}
}

func TestSampleWindowEmpty(t *testing.T) {
	w := SampleWindow(0, 15, rand.New(rand.NewPCG(1, 2)))
	if w.Len() != 0 {
		t.Errorf("SampleWindow(0) = %+v, want empty", w)
	}
}

func TestSampleCount(t *testing.T) {
	tests := []struct {
		pageCount, size, want int
	}{
		{0, 15, 0},
		{1, 15, 0},
		{2, 15, 1},
		{16, 15, 15},
		{200, 15, 15},
		{10, 4, 4},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.pageCount, tt.size); got != tt.want {
			t.Errorf("SampleCount(%d, %d) = %d, want %d", tt.pageCount, tt.size, got, tt.want)
		}
	}
}

func TestSeededSamplerDeterministic(t *testing.T) {
	seed := documentSeed("report", 120)
	a := seededSampler(seed, 15)(120)
	b := seededSampler(seed, 15)(120)
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
	if documentSeed("report", 120) == documentSeed("report", 121) {
		t.Error("page count does not affect the seed")
	}
}

func TestSampleWindowCoversOffsets(t *testing.T) {
	// every admissible start offset is eventually drawn
	rng := rand.New(rand.NewPCG(42, 42))
	seen := make(map[int]bool)
	for range 2000 {
		seen[SampleWindow(20, 15, rng).Start] = true
	}
	for start := 1; start <= 5; start++ {
		if !seen[start] {
			t.Errorf("start %d never drawn", start)
		}
	}
	if len(seen) != 5 {
		t.Errorf("drew %d distinct starts, want 5", len(seen))
	}
}
