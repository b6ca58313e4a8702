package main

import (
	"fmt"

	"github.com/extism/go-pdk"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"github.com/wbrown/rgrams"
	"github.com/wbrown/rgrams/types"
)

// GenerateRequest is the msgpack input of generate_array.
type GenerateRequest struct {
	Tokens  []string `msgpack:"tokens"`
	MinFreq int      `msgpack:"min_freq"`
	MaxIter int      `msgpack:"max_iter"`
}

// GenerateResult is the msgpack output of generate_array.
type GenerateResult struct {
	Rgrams []string       `msgpack:"rgrams"`
	Merges []rgrams.Merge `msgpack:"merges"`
}

func generateRequest(request GenerateRequest) (*GenerateResult, error) {
	generator := rgrams.RgramGenerator{
		MinFreq: request.MinFreq,
		MaxIter: request.MaxIter,
	}
	rgramTokens, merges, err := generator.GenerateWithMerges(
		types.TokensFromStrings(request.Tokens))
	if err != nil {
		return nil, err
	}
	return &GenerateResult{rgramTokens.Strings(), merges}, nil
}

//go:wasmexport generate_rgrams
func GenerateRgrams() int32 {
	text := pdk.InputString()
	rgramTokens, err := rgrams.GenerateRgrams(types.TokensFromText(text),
		rgrams.DefaultMinFreq, rgrams.DefaultMaxIter)
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	bytes, err := msgpack.Marshal(rgramTokens.Strings())
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(bytes)
	return 0
}

//go:wasmexport generate_array
func GenerateArray() int32 {
	var request GenerateRequest
	if err := msgpack.Unmarshal(pdk.Input(), &request); err != nil {
		pdk.SetError(err)
		return 1
	}
	result, err := generateRequest(request)
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	bytes, err := msgpack.Marshal(result)
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(bytes)
	return 0
}

//go:wasmexport decode
func Decode() int32 {
	bytes := pdk.Input()
	tokens, err := types.TokensFromBin(&bytes)
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.OutputString(tokens.Join())
	return 0
}

func GenerateAndBackFull() error {
	// Mostly for debugging
	request := GenerateRequest{
		Tokens:  []string{"spam", "spam", "eggs", "spam", "spam"},
		MinFreq: 2,
		MaxIter: rgrams.DefaultMaxIter,
	}
	encoded, err := msgpack.Marshal(&request)
	if err != nil {
		return err
	}
	var decoded GenerateRequest
	if err = msgpack.Unmarshal(encoded, &decoded); err != nil {
		return err
	}
	result, err := generateRequest(decoded)
	if err != nil {
		return err
	}
	fmt.Println(rgrams.MergeBoundaries(types.TokensFromStrings(
		result.Rgrams)))
	return nil
}

func main() {
	err := GenerateAndBackFull()
	if err != nil {
		fmt.Println("Error:", err)
	}
}
