package types

import "strings"

// Token is a unigram, or a compound r-gram formed by joining two prior
// tokens with a single space.
type Token string
type Tokens []Token

const PairSeparator = " "

// Pair is two adjacent tokens. HasRight is false for the tail pair of a
// padded enumeration, where the left token has no right neighbor.
type Pair struct {
	Left     Token
	Right    Token
	HasRight bool
}

// Key joins the pair into its counting key. A pair without a right
// neighbor keys as its lone left token.
func (pair Pair) Key() string {
	if !pair.HasRight {
		return string(pair.Left)
	}
	return string(pair.Left) + PairSeparator + string(pair.Right)
}

// TokensFromStrings wraps a slice of unigram strings.
func TokensFromStrings(words []string) Tokens {
	tokens := make(Tokens, len(words))
	for idx := range words {
		tokens[idx] = Token(words[idx])
	}
	return tokens
}

// TokensFromText splits whitespace-separated unigrams.
func TokensFromText(text string) Tokens {
	return TokensFromStrings(strings.Fields(text))
}

func (tokens Tokens) Strings() []string {
	words := make([]string, len(tokens))
	for idx := range tokens {
		words[idx] = string(tokens[idx])
	}
	return words
}

// Join concatenates the tokens with single spaces, erasing merge
// boundaries.
func (tokens Tokens) Join() string {
	return strings.Join(tokens.Strings(), PairSeparator)
}

// Unigrams splits every compound token back into its unigrams.
func (tokens Tokens) Unigrams() Tokens {
	return TokensFromText(tokens.Join())
}

// IsCompound reports whether the token is a merged r-gram.
func (token Token) IsCompound() bool {
	return strings.Contains(string(token), PairSeparator)
}

// Order is the number of unigrams in the token.
func (token Token) Order() int {
	return strings.Count(string(token), PairSeparator) + 1
}
