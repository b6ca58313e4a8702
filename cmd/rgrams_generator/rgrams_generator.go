package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wbrown/rgrams"
	"github.com/wbrown/rgrams/resources"
	"github.com/wbrown/rgrams/types"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatBin  = "bin"
)

type documentRecord struct {
	Source string         `json:"source"`
	Index  int            `json:"index"`
	Rgrams []string       `json:"rgrams"`
	Merges []rgrams.Merge `json:"merges,omitempty"`
}

// GenerationStats summarizes a run over a set of documents.
type GenerationStats struct {
	Documents int
	Unigrams  int
	Rgrams    int
	Merges    int
	Counts    types.Tokens
}

// WriteDocument writes the r-grams of one document to out in format. Text
// output is one `|`-delimited line per document, JSON output is one record
// per line, and binary output is a little-endian uint32 byte length
// followed by the serialized tokens.
func WriteDocument(out io.Writer, format string, document *Document,
	rgramTokens types.Tokens, merges []rgrams.Merge) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintln(out, rgrams.MergeBoundaries(rgramTokens))
		return err
	case FormatJSON:
		record := documentRecord{
			Source: document.Source,
			Index:  document.Index,
			Rgrams: rgramTokens.Strings(),
			Merges: merges,
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", encoded)
		return err
	case FormatBin:
		bin, err := rgramTokens.ToBin()
		if err != nil {
			return err
		}
		if err = binary.Write(out, binary.LittleEndian,
			uint32(len(*bin))); err != nil {
			return err
		}
		_, err = out.Write(*bin)
		return err
	default:
		return errors.New(fmt.Sprintf("unknown output format `%s`",
			format))
	}
}

// GenerateDocuments
// Consumes documents from nextDocument, generates r-grams for each, and
// writes them to out. With showMerges, JSON records include the merge
// trace. When collectRgrams is set, the generated r-grams of every
// document are kept in the returned stats for reporting.
func GenerateDocuments(generator *rgrams.RgramGenerator,
	nextDocument DocumentsIterator, out io.Writer, format string,
	showMerges bool, collectRgrams bool) (*GenerationStats, error) {
	stats := &GenerationStats{Counts: make(types.Tokens, 0)}
	for document := nextDocument(); document != nil; document = nextDocument() {
		rgramTokens, merges, err := generator.GenerateWithMerges(
			document.Tokens)
		if err != nil {
			return stats, err
		}
		stats.Merges += len(merges)
		if !showMerges {
			merges = nil
		}
		if err = WriteDocument(out, format, document, rgramTokens,
			merges); err != nil {
			return stats, err
		}
		stats.Documents++
		stats.Unigrams += len(document.Tokens)
		stats.Rgrams += len(rgramTokens)
		if collectRgrams {
			stats.Counts = append(stats.Counts, rgramTokens...)
		}
	}
	return stats, nil
}

// resolveInput picks the documents source for input: an S3 prefix, a
// directory of texts, or anything ResolveCorpus understands. Settings the
// corpus ships with fill the unset fields of config before its documents
// are split.
func resolveInput(input string, cacheDir string,
	config *resources.GeneratorConfig,
	reorder string) (DocumentsIterator, error) {
	if strings.HasPrefix(input, "s3://") {
		svc, err := NewS3Client()
		if err != nil {
			return nil, err
		}
		return ReadS3Texts(svc, input, config.GetDocumentSeparator(),
			config.GetSanitize())
	}
	if stat, err := os.Stat(input); err == nil && stat.IsDir() {
		if _, globErr := GlobTexts(input); globErr == nil {
			for _, name := range []string{resources.ConfigJSON,
				resources.ConfigYAML} {
				if dirConfig, configErr := resources.LoadConfig(
					path.Join(input, name)); configErr == nil {
					config.Merge(dirConfig)
					break
				}
			}
			return ReadTexts(input, config.GetDocumentSeparator(),
				config.GetSanitize(), reorder)
		}
	}
	rsrcs, err := resources.ResolveCorpus(input, cacheDir)
	if err != nil {
		return nil, err
	}
	corpusConfig, err := rsrcs.Config()
	if err != nil {
		return nil, err
	}
	config.Merge(corpusConfig)
	return ResourceDocuments(input, rsrcs, config.GetDocumentSeparator(),
		config.GetSanitize())
}

func main() {
	inputPath := flag.String("input", "",
		"input file, directory, corpus id, URL, or s3://bucket/prefix")
	minFreq := flag.Int("min_freq", rgrams.DefaultMinFreq,
		"minimum pair frequency to merge")
	maxIter := flag.Int("max_iter", rgrams.DefaultMaxIter,
		"maximum merge iteration index")
	configPath := flag.String("config", "",
		"generator config file, .json or .yaml")
	outputFile := flag.String("output", "-",
		"output file, - for stdout")
	format := flag.String("format", FormatText,
		"output format [text, json, bin]")
	separator := flag.String("separator", "",
		"document separator, defaults to newline")
	sanitizeBool := flag.Bool("sanitize", false,
		"sanitize inputs of whitespace issues")
	reorderPaths := flag.String("reorder", "",
		"reorder input files to specification [size_ascending, "+
			"size_descending, path_ascending, path_descending, random, none]")
	showMerges := flag.Bool("show_merges", false,
		"include the merge trace in json output")
	top := flag.Int("top", 0,
		"log the N most frequent multi-word r-grams when done")
	cacheDir := flag.String("cache_dir", "",
		"directory to download remote corpora into")
	verbose := flag.Bool("verbose", false, "log every merge")
	flag.Parse()
	if *inputPath == "" {
		flag.Usage()
		log.Fatal("Must provide -input for corpus source")
	}
	if *format != FormatText && *format != FormatJSON && *format != FormatBin {
		log.Fatal("Invalid -format, must be text, json, or bin")
	}
	if err := ReorderPaths(nil, *reorderPaths); err != nil {
		log.Fatal("Invalid reorder specification")
	}

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	config := &resources.GeneratorConfig{}
	if setFlags["min_freq"] {
		config.MinFreq = minFreq
	}
	if setFlags["max_iter"] {
		config.MaxIter = maxIter
	}
	if setFlags["separator"] {
		config.DocumentSeparator = separator
	}
	if setFlags["sanitize"] {
		config.Sanitize = sanitizeBool
	}
	if *configPath != "" {
		fileConfig, err := resources.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		config.Merge(fileConfig)
	}

	nextDocument, err := resolveInput(*inputPath, *cacheDir, config,
		*reorderPaths)
	if err != nil {
		log.Fatal(err)
	}

	generator, err := rgrams.NewRgramGenerator(
		config.GetMinFreq(rgrams.DefaultMinFreq),
		config.GetMaxIter(rgrams.DefaultMaxIter))
	if err != nil {
		log.Fatal(err)
	}
	generator.Verbose = *verbose

	log.Printf("R-gram input source: %s\n", *inputPath)
	log.Printf("R-gram output: %s (%s)\n", *outputFile, *format)
	log.Printf("min_freq: %d, max_iter: %d\n", generator.MinFreq,
		generator.MaxIter)

	var out io.Writer
	if *outputFile == "-" {
		out = os.Stdout
	} else {
		outFile, createErr := os.Create(*outputFile)
		if createErr != nil {
			log.Fatal(createErr)
		}
		defer outFile.Close()
		out = outFile
	}
	writer := bufio.NewWriterSize(out, 8*1024*1024)

	begin := time.Now()
	stats, genErr := GenerateDocuments(generator, nextDocument, writer,
		*format, *showMerges, *top > 0)
	if flushErr := writer.Flush(); flushErr != nil && genErr == nil {
		genErr = flushErr
	}
	if genErr != nil {
		log.Fatal(genErr)
	}
	duration := time.Since(begin).Seconds()
	log.Printf("%s documents, %s unigrams into %s r-grams in %0.2fs, "+
		"%0.2f unigrams/s", humanize.Comma(int64(stats.Documents)),
		humanize.Comma(int64(stats.Unigrams)),
		humanize.Comma(int64(stats.Rgrams)), duration,
		float64(stats.Unigrams)/duration)
	log.Printf("LRU cache: %d hits, %d misses", generator.LruHits,
		generator.LruMisses)
	if *top > 0 {
		log.Printf("Top %d r-grams:\n%s", *top,
			rgrams.CountRgrams(stats.Counts, 2).Top(*top))
	}
}
