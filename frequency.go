package rgrams

// PairCounts is the frequency table for one pass over a token sequence.
// Order holds each pair key in the order it was first seen, which decides
// ties between equally frequent pairs.
type PairCounts struct {
	Counts map[string]int
	Order  []string
}

// CountPairs
// Counts the occurrences of every adjacent pair key in a single left to
// right pass over tokens.
func CountPairs(tokens Tokens) PairCounts {
	numPairs := 0
	if len(tokens) > 1 {
		numPairs = len(tokens) - 1
	}
	counts := PairCounts{
		Counts: make(map[string]int, numPairs),
		Order:  make([]string, 0, numPairs),
	}
	nextPair := Pairwise(tokens, false)
	for pair := nextPair(); pair != nil; pair = nextPair() {
		key := pair.Key()
		if _, seen := counts.Counts[key]; !seen {
			counts.Order = append(counts.Order, key)
		}
		counts.Counts[key]++
	}
	return counts
}

// MostCommon returns the most frequent pair key and its count. Among keys
// sharing the highest count, the one seen first wins.
func (counts PairCounts) MostCommon() (pair string, freq int, err error) {
	if len(counts.Order) == 0 {
		return "", 0, ErrEmptyInput
	}
	for _, key := range counts.Order {
		if count := counts.Counts[key]; count > freq {
			pair = key
			freq = count
		}
	}
	return pair, freq, nil
}

// MostCommonPair
// Returns the most frequent adjacent pair of tokens, joined by a single
// space, along with its frequency. Ties go to the pair encountered first.
// Sequences shorter than two tokens return ErrEmptyInput.
//
// Example:
//
//	MostCommonPair(Tokens{"spam", "spam", "eggs", "spam", "spam"})
//	> "spam spam", 2
func MostCommonPair(tokens Tokens) (string, int, error) {
	if len(tokens) < 2 {
		return "", 0, ErrEmptyInput
	}
	return CountPairs(tokens).MostCommon()
}
