package rgrams

// PairsIterator yields adjacent pairs from a token sequence, returning nil
// once the sequence is exhausted.
type PairsIterator func() *Pair

// Pairwise
// Returns an iterator over the adjacent pairs of tokens. With longest false,
// it yields the len(tokens)-1 pairs (t0, t1) ... (tN-2, tN-1). With longest
// true, it yields one more trailing pair (tN-1, absent) whose HasRight is
// false. Every call builds a fresh iteration, so the same tokens can be
// enumerated again by calling Pairwise again.
func Pairwise(tokens Tokens, longest bool) PairsIterator {
	idx := 0
	return func() *Pair {
		if idx+1 < len(tokens) {
			pair := &Pair{
				Left:     tokens[idx],
				Right:    tokens[idx+1],
				HasRight: true,
			}
			idx++
			return pair
		} else if longest && idx < len(tokens) {
			pair := &Pair{Left: tokens[idx]}
			idx++
			return pair
		}
		return nil
	}
}

// Collect drains the iterator into a slice.
func (nextPair PairsIterator) Collect() []Pair {
	pairs := make([]Pair, 0)
	for pair := nextPair(); pair != nil; pair = nextPair() {
		pairs = append(pairs, *pair)
	}
	return pairs
}
