package layout

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// Window is a contiguous range of page indices [Start, End)
type Window struct {
	Start int
	End   int
}

// Len returns the number of pages in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Sampler picks the evidence window for a document of pageCount pages
type Sampler func(pageCount int) Window

// SampleWindow selects a window of min(size, pageCount-1) pages starting at a
// uniformly random offset in [1, max(pageCount-size, 1)]. Page 0 is never
// part of a multi-page window. A single-page document yields the window
// [0, 1).
func SampleWindow(pageCount, size int, rng *rand.Rand) Window {
	if pageCount <= 0 {
		return Window{}
	}
	if pageCount == 1 {
		return Window{Start: 0, End: 1}
	}

	count := min(size, pageCount-1)
	hi := max(pageCount-size, 1)
	start := 1 + rng.IntN(hi)
	start = max(1, start)
	end := min(start+count, pageCount)
	return Window{Start: start, End: end}
}

// SampleCount is the page count the recurrence thresholds are scaled by:
// min(size, pageCount-1), regardless of where the window was clamped.
func SampleCount(pageCount, size int) int {
	return max(0, min(size, pageCount-1))
}

// seededSampler returns a Sampler drawing from a PCG source
func seededSampler(seed uint64, size int) Sampler {
	return func(pageCount int) Window {
		rng := rand.New(rand.NewPCG(seed, uint64(pageCount)))
		return SampleWindow(pageCount, size, rng)
	}
}

// documentSeed derives a stable seed from a document's identity
func documentSeed(name string, pageCount int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(pageCount)))
	return h.Sum64()
}
