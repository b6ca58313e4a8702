// Package rgrams discovers r-grams, recurring multi-token units, in a
// sequence of unigrams by repeatedly merging the most frequent pair of
// adjacent tokens, as described by Ekgren et al. in "R-grams: Unsupervised
// Learning of Semantic Units in Natural Language" (2018).
package rgrams

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/wbrown/rgrams/types"
)

// DefaultMinFreq is the least number of occurrences a pair needs to be
// merged.
const DefaultMinFreq = 4

// DefaultMaxIter is the last merge iteration index that is attempted.
const DefaultMaxIter = 50000

// RGRAM_LRU_SZ is the number of documents an RgramGenerator caches.
const RGRAM_LRU_SZ = 4096

type Token = types.Token
type Tokens = types.Tokens
type Pair = types.Pair

var (
	// ErrEmptyInput is returned when pairs are requested from fewer than
	// two tokens.
	ErrEmptyInput = errors.New("rgrams: fewer than two tokens, no pairs")
	// ErrInvalidArgument is returned for a min_freq below 1 or a max_iter
	// below 0.
	ErrInvalidArgument = errors.New("rgrams: invalid argument")
)

// Merge records one accepted merge: the pair that was merged, how often it
// occurred, and the iteration it was merged on.
type Merge struct {
	Iteration int    `json:"iteration"`
	Pair      string `json:"pair"`
	Freq      int    `json:"freq"`
}

// RgramGenerator
// Generates r-grams with fixed settings, caching the result for every
// document it has seen in Cache. A nil Cache disables caching. Generate
// and GenerateWithMerges may be called from multiple goroutines, as long
// as MinFreq, MaxIter and Verbose are not changed meanwhile. LruHits and
// LruMisses are updated atomically.
type RgramGenerator struct {
	MinFreq   int
	MaxIter   int
	Verbose   bool
	Cache     *lru.ARCCache
	LruHits   uint64
	LruMisses uint64
	LruSize   int
}

type cachedRgrams struct {
	tokens Tokens
	merges []Merge
}

// NewRgramGenerator
// Returns an RgramGenerator that merges pairs occurring at least minFreq
// times, for at most maxIter iterations past the first.
func NewRgramGenerator(minFreq, maxIter int) (*RgramGenerator, error) {
	if err := validateArgs(minFreq, maxIter); err != nil {
		return nil, err
	}
	cache, err := lru.NewARC(RGRAM_LRU_SZ)
	if err != nil {
		return nil, err
	}
	return &RgramGenerator{
		MinFreq: minFreq,
		MaxIter: maxIter,
		Cache:   cache,
		LruSize: RGRAM_LRU_SZ,
	}, nil
}

func validateArgs(minFreq, maxIter int) error {
	if minFreq < 1 {
		return fmt.Errorf("%w: min_freq must be at least 1, got %d",
			ErrInvalidArgument, minFreq)
	}
	if maxIter < 0 {
		return fmt.Errorf("%w: max_iter must not be negative, got %d",
			ErrInvalidArgument, maxIter)
	}
	return nil
}

// GenerateRgrams
// Generates r-grams from a sequence of unigrams using the BPE algorithm.
//
// Example:
//
//	GenerateRgrams(Tokens{"spam", "spam", "eggs", "spam", "spam"}, 2, DefaultMaxIter)
//	> [spam spam, eggs, spam spam]
//
//	GenerateRgrams(Tokens{"spam", "spam", "eggs", "spam", "spam"}, 3, DefaultMaxIter)
//	> [spam, spam, eggs, spam, spam]
func GenerateRgrams(tokens Tokens, minFreq, maxIter int) (Tokens, error) {
	if err := validateArgs(minFreq, maxIter); err != nil {
		return nil, err
	}
	rgrams, _ := mergeLoop(tokens, minFreq, maxIter, false)
	return rgrams, nil
}

// mergeLoop runs the merge iterations. It stops once the iteration count
// passes maxIter, fewer than two tokens remain, or the most frequent pair
// occurs fewer than minFreq times.
func mergeLoop(tokens Tokens, minFreq, maxIter int,
	verbose bool) (Tokens, []Merge) {
	merges := make([]Merge, 0)
	for currentIter := 0; currentIter <= maxIter; currentIter++ {
		if len(tokens) < 2 {
			break
		}
		pair, freq, err := MostCommonPair(tokens)
		if err != nil || freq < minFreq {
			break
		}
		tokens = ConcatenatePair(tokens, pair)
		merges = append(merges, Merge{currentIter, pair, freq})
		if verbose {
			log.Printf("Iteration %d: merged `%s` (%d occurrences), "+
				"%d tokens remain", currentIter, pair, freq, len(tokens))
		}
	}
	return tokens, merges
}

// Generate
// Generates r-grams from tokens with the generator's settings.
func (generator *RgramGenerator) Generate(tokens Tokens) (Tokens, error) {
	rgrams, _, err := generator.GenerateWithMerges(tokens)
	return rgrams, err
}

// GenerateWithMerges
// Generates r-grams from tokens, and returns the merges accepted along the
// way in the order they were made. Results are cached by input, so a
// repeated document is only merged once.
func (generator *RgramGenerator) GenerateWithMerges(tokens Tokens) (Tokens,
	[]Merge, error) {
	if err := validateArgs(generator.MinFreq,
		generator.MaxIter); err != nil {
		return nil, nil, err
	}
	var cacheKey string
	if generator.Cache != nil {
		bin, binErr := tokens.ToBin()
		if binErr != nil {
			return nil, nil, binErr
		}
		cacheKey = fmt.Sprintf("%d:%d:%s", generator.MinFreq,
			generator.MaxIter, *bin)
		if lookup, ok := generator.Cache.Get(cacheKey); ok {
			atomic.AddUint64(&generator.LruHits, 1)
			cached := lookup.(cachedRgrams)
			return copyTokens(cached.tokens), copyMerges(cached.merges), nil
		}
		atomic.AddUint64(&generator.LruMisses, 1)
	}
	rgrams, merges := mergeLoop(tokens, generator.MinFreq,
		generator.MaxIter, generator.Verbose)
	if generator.Cache != nil {
		generator.Cache.Add(cacheKey, cachedRgrams{
			copyTokens(rgrams),
			copyMerges(merges),
		})
	}
	return rgrams, merges, nil
}

func copyTokens(tokens Tokens) Tokens {
	copied := make(Tokens, len(tokens))
	copy(copied, tokens)
	return copied
}

func copyMerges(merges []Merge) []Merge {
	copied := make([]Merge, len(merges))
	copy(copied, merges)
	return copied
}
