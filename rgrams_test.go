package rgrams

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var spamTokens = Tokens{"spam", "spam", "eggs", "spam", "spam"}

type PairwiseTest struct {
	Input    Tokens
	Longest  bool
	Expected []Pair
}

var PairwiseTests = []PairwiseTest{
	{Tokens{"spam", "bacon", "eggs"}, false,
		[]Pair{{Left: "spam", Right: "bacon", HasRight: true}, {Left: "bacon", Right: "eggs", HasRight: true}}},
	{Tokens{"spam", "bacon", "eggs"}, true,
		[]Pair{{Left: "spam", Right: "bacon", HasRight: true}, {Left: "bacon", Right: "eggs", HasRight: true},
			{Left: "eggs", Right: "", HasRight: false}}},
	{Tokens{"spam"}, false, []Pair{}},
	{Tokens{"spam"}, true, []Pair{{Left: "spam", Right: "", HasRight: false}}},
	{Tokens{}, false, []Pair{}},
	{Tokens{}, true, []Pair{}},
}

func TestPairwise(t *testing.T) {
	for testIdx := range PairwiseTests {
		test := PairwiseTests[testIdx]
		assert.Equal(t, test.Expected,
			Pairwise(test.Input, test.Longest).Collect())
	}
}

func TestPairwise_Restartable(t *testing.T) {
	first := Pairwise(spamTokens, false)
	second := Pairwise(spamTokens, false)
	// Interleaved iterations do not share state.
	assert.Equal(t, "spam spam", first().Key())
	assert.Equal(t, "spam eggs", first().Key())
	assert.Equal(t, "spam spam", second().Key())
	assert.Len(t, first.Collect(), 2)
	assert.Len(t, second.Collect(), 3)
	assert.Nil(t, first())
	assert.Len(t, Pairwise(spamTokens, false).Collect(), 4)
}

type MostCommonTest struct {
	Name     string
	Input    Tokens
	Pair     string
	Expected int
}

var MostCommonTests = []MostCommonTest{
	{"spam", spamTokens, "spam spam", 2},
	{"alternating", Tokens{"x", "y", "x", "y"}, "x y", 2},
	{"outright winner", Tokens{"p", "q", "p", "q", "m", "n"}, "p q", 2},
	{"all singletons", Tokens{"a", "b", "c", "d"}, "a b", 1},
	{"tie goes to first seen",
		Tokens{"c", "d", "a", "b", "a", "b", "c", "d"}, "c d", 2},
	{"tie with later pair seen more recently",
		Tokens{"b", "a", "c", "c", "b", "a", "c", "c"}, "b a", 2},
	{"two tokens", Tokens{"spam", "eggs"}, "spam eggs", 1},
}

func TestMostCommonPair(t *testing.T) {
	for _, test := range MostCommonTests {
		pair, freq, err := MostCommonPair(test.Input)
		assert.NoError(t, err, test.Name)
		assert.Equal(t, test.Pair, pair, test.Name)
		assert.Equal(t, test.Expected, freq, test.Name)
	}
}

func TestMostCommonPair_EmptyInput(t *testing.T) {
	_, _, err := MostCommonPair(Tokens{"spam"})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, _, err = MostCommonPair(Tokens{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, _, err = PairCounts{}.MostCommon()
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCountPairs(t *testing.T) {
	counts := CountPairs(Tokens{"p", "q", "p", "q", "m", "n"})
	assert.Equal(t, []string{"p q", "q p", "q m", "m n"}, counts.Order)
	assert.Equal(t, map[string]int{"p q": 2, "q p": 1, "q m": 1, "m n": 1},
		counts.Counts)
}

type ConcatenateTest struct {
	Input    Tokens
	Pair     string
	Expected Tokens
}

var ConcatenateTests = []ConcatenateTest{
	{spamTokens, "spam spam", Tokens{"spam spam", "eggs", "spam spam"}},
	{Tokens{"a", "a", "a", "a"}, "a a", Tokens{"a a", "a a"}},
	{Tokens{"a", "a", "a"}, "a a", Tokens{"a a", "a"}},
	{Tokens{"a", "a", "b", "a", "a", "a"}, "a a",
		Tokens{"a a", "b", "a a", "a"}},
	{Tokens{"x", "y"}, "y x", Tokens{"x", "y"}},
	{Tokens{"x", "y", "z"}, "y z", Tokens{"x", "y z"}},
	{Tokens{"b", "a a"}, "a a", Tokens{"b", "a a"}},
	{Tokens{"spam"}, "spam spam", Tokens{"spam"}},
	{Tokens{}, "spam spam", Tokens{}},
	// Keys are compared as joined text, so a token holding a space matches
	// a pair with the same text.
	{Tokens{"a b", "c", "a", "b c"}, "a b c", Tokens{"a b c", "a b c"}},
}

func TestConcatenatePair(t *testing.T) {
	for _, test := range ConcatenateTests {
		assert.Equal(t, test.Expected, ConcatenatePair(test.Input, test.Pair))
	}
}

func TestConcatenatePair_DoesNotMutate(t *testing.T) {
	input := Tokens{"a", "a", "a", "a"}
	_ = ConcatenatePair(input, "a a")
	assert.Equal(t, Tokens{"a", "a", "a", "a"}, input)
}

type GenerateTest struct {
	Name     string
	Input    Tokens
	MinFreq  int
	MaxIter  int
	Expected Tokens
}

var theCatSatDown = Tokens{
	"the", "cat", "sat", "down", "the", "cat", "sat", "down",
	"the", "cat", "sat", "down", "the", "cat", "sat", "down",
}

var GenerateTests = []GenerateTest{
	{"spam min_freq 2", spamTokens, 2, DefaultMaxIter,
		Tokens{"spam spam", "eggs", "spam spam"}},
	{"spam min_freq 3", spamTokens, 3, DefaultMaxIter,
		Tokens{"spam", "spam", "eggs", "spam", "spam"}},
	{"no repeated pairs", Tokens{"a", "b", "c", "d"}, 2, DefaultMaxIter,
		Tokens{"a", "b", "c", "d"}},
	{"max_iter 0 still merges once",
		Tokens{"a", "b", "a", "b", "a", "b"}, 2, 0,
		Tokens{"a b", "a b", "a b"}},
	{"max_iter 1 merges twice",
		Tokens{"a", "b", "a", "b", "a", "b"}, 2, 1,
		Tokens{"a b a b", "a b"}},
	{"multiple rounds", theCatSatDown, DefaultMinFreq, DefaultMaxIter,
		Tokens{"the cat sat down", "the cat sat down", "the cat sat down",
			"the cat sat down"}},
	{"min_freq 1 collapses to one token", Tokens{"a", "b", "c"}, 1,
		DefaultMaxIter, Tokens{"a b c"}},
	{"single token", Tokens{"spam"}, 1, DefaultMaxIter, Tokens{"spam"}},
	{"empty", Tokens{}, 1, DefaultMaxIter, Tokens{}},
}

func TestGenerateRgrams(t *testing.T) {
	for _, test := range GenerateTests {
		rgrams, err := GenerateRgrams(test.Input, test.MinFreq, test.MaxIter)
		assert.NoError(t, err, test.Name)
		assert.Equal(t, test.Expected, rgrams, test.Name)
	}
}

func TestGenerateRgrams_InvalidArgument(t *testing.T) {
	_, err := GenerateRgrams(spamTokens, 2, -1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = GenerateRgrams(spamTokens, 0, DefaultMaxIter)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewRgramGenerator(0, DefaultMaxIter)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	generator := RgramGenerator{MinFreq: 2, MaxIter: -1}
	_, err = generator.Generate(spamTokens)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRgramGenerator_GenerateWithMerges(t *testing.T) {
	generator, err := NewRgramGenerator(DefaultMinFreq, DefaultMaxIter)
	assert.NoError(t, err)
	rgrams, merges, err := generator.GenerateWithMerges(theCatSatDown)
	assert.NoError(t, err)
	assert.Len(t, rgrams, 4)
	assert.Equal(t, []Merge{
		{0, "the cat", 4},
		{1, "the cat sat", 4},
		{2, "the cat sat down", 4},
	}, merges)
}

func TestRgramGenerator_Cache(t *testing.T) {
	generator, err := NewRgramGenerator(2, DefaultMaxIter)
	assert.NoError(t, err)
	first, err := generator.Generate(spamTokens)
	assert.NoError(t, err)
	first[0] = "mutated"
	second, _, err := generator.GenerateWithMerges(spamTokens)
	assert.NoError(t, err)
	assert.Equal(t, Tokens{"spam spam", "eggs", "spam spam"}, second)
	assert.Equal(t, uint64(1), generator.LruMisses)
	assert.Equal(t, uint64(1), generator.LruHits)

	// Different settings are cached separately.
	generator.MinFreq = 3
	third, _ := generator.Generate(spamTokens)
	assert.Equal(t, spamTokens, third)
	assert.Equal(t, uint64(2), generator.LruMisses)
}

func TestRgramGenerator_NoCache(t *testing.T) {
	generator := RgramGenerator{MinFreq: 2, MaxIter: DefaultMaxIter}
	rgrams, err := generator.Generate(spamTokens)
	assert.NoError(t, err)
	assert.Equal(t, Tokens{"spam spam", "eggs", "spam spam"}, rgrams)
	assert.Zero(t, generator.LruMisses)
}

func TestRgramGenerator_Concurrent(t *testing.T) {
	generator, err := NewRgramGenerator(2, DefaultMaxIter)
	assert.NoError(t, err)
	documents := []Tokens{spamTokens, theCatSatDown, spamTokens}
	const workers = 8
	const rounds = 50
	var wg sync.WaitGroup
	failures := make(chan string, workers*rounds*len(documents))
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < rounds; round++ {
				for _, document := range documents {
					expected, _ := GenerateRgrams(document, 2, DefaultMaxIter)
					rgrams, genErr := generator.Generate(document)
					if genErr != nil || !assert.ObjectsAreEqual(expected,
						rgrams) {
						failures <- strings.Join(document.Strings(), " ")
					}
				}
			}
		}()
	}
	wg.Wait()
	close(failures)
	assert.Empty(t, failures)
	assert.Equal(t, uint64(workers*rounds*len(documents)),
		generator.LruHits+generator.LruMisses)
	assert.GreaterOrEqual(t, generator.LruMisses, uint64(2))
}

// randomTokens draws n unigrams from a small vocabulary so that pairs
// repeat often.
func randomTokens(rng *rand.Rand, n int) Tokens {
	vocab := []Token{"the", "cat", "sat", "on", "mat", "a", "dog"}
	tokens := make(Tokens, n)
	for idx := range tokens {
		tokens[idx] = vocab[rng.Intn(len(vocab))]
	}
	return tokens
}

func TestGenerateRgrams_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1808))
	for trial := 0; trial < 200; trial++ {
		input := randomTokens(rng, rng.Intn(64))
		original := copyTokens(input)
		minFreq := 1 + rng.Intn(4)
		generator := RgramGenerator{MinFreq: minFreq, MaxIter: rng.Intn(8)}
		rgrams, merges, err := generator.GenerateWithMerges(input)
		assert.NoError(t, err)
		// The input is never modified.
		assert.Equal(t, original, input)
		// Content is preserved.
		assert.Equal(t, input.Join(), rgrams.Join())
		// Every merge shrinks the sequence.
		if len(merges) == 0 {
			assert.Equal(t, input, rgrams)
		} else {
			assert.Less(t, len(rgrams), len(input))
			assert.LessOrEqual(t, len(merges), len(input)-1)
		}
		for _, merge := range merges {
			assert.GreaterOrEqual(t, merge.Freq, minFreq)
		}
		assert.LessOrEqual(t, len(merges), generator.MaxIter+1)
		// Identical input, identical output.
		again, _ := GenerateRgrams(input, generator.MinFreq, generator.MaxIter)
		assert.Equal(t, rgrams, again)
	}
}

func TestCountRgrams(t *testing.T) {
	tokens := Tokens{"spam spam", "eggs", "spam spam", "eggs and ham",
		"eggs"}
	assert.Equal(t, RgramCounts{
		{"spam spam", 2, 2},
		{"eggs and ham", 3, 1},
	}, CountRgrams(tokens, 2))
	all := CountRgrams(tokens, 1)
	assert.Equal(t, RgramCounts{
		{"spam spam", 2, 2},
		{"eggs", 1, 2},
		{"eggs and ham", 3, 1},
	}, all)
	assert.Equal(t, all[:1], all.Top(1))
	assert.Equal(t, all, all.Top(-1))
	assert.Equal(t, all, all.Top(10))
	assert.Equal(t, "2\t2\tspam spam\n1\t3\teggs and ham\n",
		CountRgrams(tokens, 2).String())
}

func TestMergeBoundaries(t *testing.T) {
	assert.Equal(t, "|spam spam|eggs|spam spam|",
		MergeBoundaries(Tokens{"spam spam", "eggs", "spam spam"}))
	assert.Equal(t, "", MergeBoundaries(Tokens{}))
}
