package rgrams

import (
	"fmt"
	"sort"
	"strings"
)

// RgramCount is how many times an r-gram occurs in a generated sequence.
type RgramCount struct {
	Rgram Token `json:"rgram"`
	Order int   `json:"order"`
	Count int   `json:"count"`
}

type RgramCounts []RgramCount

// CountRgrams
// Tallies the tokens of a generated sequence that span at least minOrder
// unigrams, most frequent first. Equal counts keep the order in which the
// r-grams first appear.
func CountRgrams(tokens Tokens, minOrder int) RgramCounts {
	indexes := make(map[Token]int)
	counts := make(RgramCounts, 0)
	for _, token := range tokens {
		order := token.Order()
		if order < minOrder {
			continue
		}
		if idx, ok := indexes[token]; ok {
			counts[idx].Count++
		} else {
			indexes[token] = len(counts)
			counts = append(counts, RgramCount{token, order, 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Top returns at most n of the most frequent r-grams; n < 0 returns all.
func (counts RgramCounts) Top(n int) RgramCounts {
	if n < 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

func (counts RgramCounts) String() string {
	var sb strings.Builder
	for _, count := range counts {
		sb.WriteString(fmt.Sprintf("%d\t%d\t%s\n", count.Count, count.Order,
			count.Rgram))
	}
	return sb.String()
}

// MergeBoundaries formats tokens with `|` between r-grams, so that merge
// boundaries remain visible.
func MergeBoundaries(tokens Tokens) string {
	if len(tokens) == 0 {
		return ""
	}
	return "|" + strings.Join(tokens.Strings(), "|") + "|"
}
