package main

//go:generate gopherjs build --minify

import (
	"log"

	"github.com/gopherjs/gopherjs/js"
	"github.com/wbrown/rgrams"
	"github.com/wbrown/rgrams/types"
)

var generator *rgrams.RgramGenerator

// Generate splits text into unigrams and returns its r-grams, or null when
// the settings are invalid.
func Generate(text string, minFreq int, maxIter int) []string {
	generator.MinFreq = minFreq
	generator.MaxIter = maxIter
	rgramTokens, err := generator.Generate(types.TokensFromText(text))
	if err != nil {
		log.Print(err)
		return nil
	}
	return rgramTokens.Strings()
}

// Decode reverses the binary r-gram serialization.
func Decode(arr []byte) []string {
	tokens, err := types.TokensFromBin(&arr)
	if err != nil {
		log.Print(err)
		return nil
	}
	return tokens.Strings()
}

func init() {
	var err error
	if generator, err = rgrams.NewRgramGenerator(rgrams.DefaultMinFreq,
		rgrams.DefaultMaxIter); err != nil {
		log.Fatal(err)
	}
	js.Module.Get("exports").Set("generate", Generate)
	js.Module.Get("exports").Set("decode", Decode)
	log.Printf("R-gram generator loaded")
}

func main() {

}
