package main

/*
#include <stdlib.h>

typedef struct {
	char *text;
	size_t len;
	int merges;
} Rgrams;
*/
import "C"
import (
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/wbrown/rgrams"
	"github.com/wbrown/rgrams/types"
)

var generators map[[2]int]*rgrams.RgramGenerator
var generatorsMu sync.Mutex

func init() {
	generators = make(map[[2]int]*rgrams.RgramGenerator)
}

// getGenerator returns the cached generator for the given settings,
// creating it on first use.
func getGenerator(minFreq, maxIter int) (*rgrams.RgramGenerator, error) {
	key := [2]int{minFreq, maxIter}
	if generator, ok := generators[key]; ok {
		return generator, nil
	}
	generator, err := rgrams.NewRgramGenerator(minFreq, maxIter)
	if err != nil {
		return nil, err
	}
	generators[key] = generator
	return generator, nil
}

func generate(text string, minFreq, maxIter int) C.Rgrams {
	generatorsMu.Lock()
	defer generatorsMu.Unlock()
	generator, err := getGenerator(minFreq, maxIter)
	if err != nil {
		return C.Rgrams{text: nil, len: 0, merges: -1}
	}
	return generateWith(generator, text)
}

// generateWith runs generator over text. Any failure is reported as NULL
// text with merges set to -1.
func generateWith(generator *rgrams.RgramGenerator, text string) C.Rgrams {
	tokens := types.TokensFromText(text)
	rgramTokens, merges, err := generator.GenerateWithMerges(tokens)
	if err != nil {
		return C.Rgrams{text: nil, len: 0, merges: -1}
	}
	joined := strings.Join(rgramTokens.Strings(), "\n")
	return C.Rgrams{
		text:   C.CString(joined),
		len:    C.size_t(len(rgramTokens)),
		merges: C.int(len(merges)),
	}
}

//export generateRgrams
// generateRgrams accepts whitespace-separated unigrams as a C string, and
// returns a C.Rgrams whose malloc'ed text holds one r-gram per line. On
// invalid settings or a failed generation, text is NULL and merges is -1.
func generateRgrams(str *C.char, minFreq C.int, maxIter C.int) C.Rgrams {
	return generate(C.GoString(str), int(minFreq), int(maxIter))
}

//export generateRgramsBuffer
// generateRgramsBuffer is generateRgrams over a buffer of sz bytes.
func generateRgramsBuffer(buf *C.char, sz C.size_t, minFreq C.int,
	maxIter C.int) C.Rgrams {
	text := C.GoStringN(buf, C.int(sz))
	return generate(text, int(minFreq), int(maxIter))
}

//export freeRgrams
// freeRgrams releases the text of a C.Rgrams.
func freeRgrams(rgramsC *C.Rgrams) {
	if rgramsC.text != nil {
		C.free(unsafe.Pointer(rgramsC.text))
		rgramsC.text = nil
	}
}

// testBuffer tests the C interface to the generator, and is here rather than
// in the test package as the test package is incompatible with CGo.
func testBuffer(buf []byte, minFreq, maxIter int) (time.Duration, []string,
	int) {
	corpusBuff := (*C.char)(C.CBytes(buf))
	defer C.free(unsafe.Pointer(corpusBuff))
	start := time.Now()
	result := generateRgramsBuffer(corpusBuff, C.size_t(len(buf)),
		C.int(minFreq), C.int(maxIter))
	duration := time.Now().Sub(start)
	lines, merges := resultLines(&result)
	return duration, lines, merges
}

// testGenerator tests generateWith against a specific generator.
func testGenerator(generator *rgrams.RgramGenerator, text string) ([]string,
	int) {
	result := generateWith(generator, text)
	return resultLines(&result)
}

// resultLines reads the r-grams out of result and frees it.
func resultLines(result *C.Rgrams) ([]string, int) {
	if result.text == nil {
		return nil, int(result.merges)
	}
	lines := strings.Split(C.GoString(result.text), "\n")
	merges := int(result.merges)
	freeRgrams(result)
	return lines, merges
}

func main() {}
