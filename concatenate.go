package rgrams

// ConcatenatePair
// Replaces every occurrence of pair in tokens with a single merged token
// equal to pair, scanning left to right. Occurrences never overlap: once a
// pair is merged, the pair starting at its right token is skipped, so
// merging "a a" over a a a a yields [a a, a a].
//
// Example:
//
//	ConcatenatePair(Tokens{"spam", "spam", "eggs", "spam", "spam"}, "spam spam")
//	> [spam spam, eggs, spam spam]
func ConcatenatePair(tokens Tokens, pair string) Tokens {
	newTokens := make(Tokens, 0, len(tokens))
	nextPair := Pairwise(tokens, true)
	for current := nextPair(); current != nil; current = nextPair() {
		if current.Key() == pair {
			newTokens = append(newTokens, Token(pair))
			// Both tokens are consumed.
			nextPair()
		} else {
			newTokens = append(newTokens, current.Left)
		}
	}
	return newTokens
}
