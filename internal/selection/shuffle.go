package selection

import "math/rand/v2"

// NewRand returns a deterministic source for seed, or nil for the process-random source
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return nil
	}
	s := uint64(*seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Shuffle returns a uniformly shuffled copy of items (Fisher-Yates).
// A nil rng uses the process-random source. The input slice is never reordered.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}
