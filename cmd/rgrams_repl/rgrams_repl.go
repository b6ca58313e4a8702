package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/wbrown/rgrams"
	"github.com/wbrown/rgrams/types"
)

// A REPL for generating r-grams from whitespace-separated unigrams.

func main() {
	minFreq := flag.Int("min_freq", rgrams.DefaultMinFreq,
		"minimum pair frequency to merge")
	maxIter := flag.Int("max_iter", rgrams.DefaultMaxIter,
		"maximum merge iteration index")
	showMerges := flag.Bool("show_merges", false,
		"print every merge made")
	flag.Parse()

	generator, err := rgrams.NewRgramGenerator(*minFreq, *maxIter)
	if err != nil {
		log.Fatal(err)
	}

	reader := bufio.NewReader(os.Stdin)
	// Provide a REPL
	for {
		fmt.Print(">>> ")
		input, err := reader.ReadString('\n')
		if err == io.EOF && input == "" {
			fmt.Println()
			return
		} else if err != nil && err != io.EOF {
			log.Fatal(err)
		}
		// Escaped `\n` separates unigrams like any other whitespace.
		input = strings.ReplaceAll(input, "\\n", "\n")

		rgramTokens, merges, genErr := generator.GenerateWithMerges(
			types.TokensFromText(input))
		if genErr != nil {
			log.Fatal(genErr)
		}
		if *showMerges {
			for _, merge := range merges {
				fmt.Printf("%d: `%s` x%d\n", merge.Iteration, merge.Pair,
					merge.Freq)
			}
		}
		fmt.Println(rgrams.MergeBoundaries(rgramTokens))
	}
}
