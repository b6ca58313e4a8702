package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/wbrown/rgrams/resources"
	"github.com/wbrown/rgrams/types"
	"github.com/yargevad/filepathx"
)

// Document is one unit of text to generate r-grams over, with the path
// or key it was read from.
type Document struct {
	Source string
	Index  int
	Tokens types.Tokens
}

// DocumentsIterator yields documents until it returns nil.
type DocumentsIterator func() *Document

type PathInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// GlobTexts
// Given a directory path, recursively finds all `.txt` and `.jsonl` files,
// returning a slice of PathInfo.
func GlobTexts(dirPath string) (pathInfos []PathInfo, err error) {
	textPaths := make([]string, 0)
	for _, pattern := range []string{"/**/*.txt", "/**/*.jsonl"} {
		matches, globErr := filepathx.Glob(dirPath + pattern)
		if globErr != nil {
			return nil, globErr
		}
		textPaths = append(textPaths, matches...)
	}
	numMatches := len(textPaths)
	if numMatches == 0 {
		return nil, errors.New(fmt.Sprintf(
			"%s does not contain any .txt or .jsonl files", dirPath))
	}
	pathInfos = make([]PathInfo, 0, numMatches)
	for _, currPath := range textPaths {
		if stat, statErr := os.Stat(currPath); statErr != nil {
			return nil, statErr
		} else if !stat.IsDir() {
			pathInfos = append(pathInfos, PathInfo{
				Path:    currPath,
				Size:    stat.Size(),
				ModTime: stat.ModTime(),
			})
		}
	}
	SortPathInfoByPath(pathInfos, true)
	return pathInfos, nil
}

func SortPathInfoBySize(pathInfos []PathInfo, ascending bool) {
	if ascending {
		sort.SliceStable(pathInfos, func(i, j int) bool {
			return pathInfos[i].Size < pathInfos[j].Size
		})
	} else {
		sort.SliceStable(pathInfos, func(i, j int) bool {
			return pathInfos[i].Size > pathInfos[j].Size
		})
	}
}

func SortPathInfoByPath(pathInfos []PathInfo, ascending bool) {
	if ascending {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Path < pathInfos[j].Path
		})
	} else {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Path > pathInfos[j].Path
		})
	}
}

func ShufflePathInfos(pathInfos []PathInfo) {
	for i := len(pathInfos) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		pathInfos[i], pathInfos[j] = pathInfos[j], pathInfos[i]
	}
}

// ReorderPaths sorts pathInfos in place according to sortSpec.
func ReorderPaths(pathInfos []PathInfo, sortSpec string) error {
	switch sortSpec {
	case "", "none":
	case "size_ascending":
		SortPathInfoBySize(pathInfos, true)
	case "size_descending":
		SortPathInfoBySize(pathInfos, false)
	case "path_ascending":
		SortPathInfoByPath(pathInfos, true)
	case "path_descending":
		SortPathInfoByPath(pathInfos, false)
	case "random":
		ShufflePathInfos(pathInfos)
	default:
		return errors.New(fmt.Sprintf("Invalid sort spec: %s", sortSpec))
	}
	return nil
}

// documentFilter returns the filter applied to every document's text.
func documentFilter(sanitize bool) resources.TextFilter {
	if sanitize {
		return SanitizeText
	}
	return nil
}

// splitText splits raw file contents into documents, sanitizing each one
// after the split so that the separator survives.
func splitText(text string, separator string, sanitize bool) []types.Tokens {
	return resources.SplitDocuments(text, separator, documentFilter(sanitize))
}

// readDocuments reads one local file into documents.
func readDocuments(filePath string, separator string,
	sanitize bool) ([]types.Tokens, error) {
	if strings.HasSuffix(filePath, ".jsonl") {
		handle, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		defer handle.Close()
		return resources.JSONLDocuments(handle, documentFilter(sanitize))
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return splitText(string(contents), separator, sanitize), nil
}

// documentsChannel turns a channel of documents into a DocumentsIterator.
func documentsChannel(documents chan *Document) DocumentsIterator {
	return func() *Document {
		if document, ok := <-documents; !ok {
			return nil
		} else {
			return document
		}
	}
}

// ReadTexts
// Consumes a directory path and recursively scans for `.txt` and `.jsonl`
// files, producing a DocumentsIterator that yields their documents in
// file order.
func ReadTexts(dirPath string, separator string, sanitize bool,
	sortSpec string) (DocumentsIterator, error) {
	matches, err := GlobTexts(dirPath)
	if err != nil {
		return nil, err
	}
	if reorderErr := ReorderPaths(matches, sortSpec); reorderErr != nil {
		return nil, reorderErr
	}

	// We pre-emptively read the next files while the prior documents are
	// being consumed.
	documents := make(chan *Document, 64)
	go func() {
		defer close(documents)
		for _, match := range matches {
			log.Print("Reading ", match.Path)
			docs, readErr := readDocuments(match.Path, separator, sanitize)
			if readErr != nil {
				log.Fatal(readErr)
			}
			for docIdx := range docs {
				documents <- &Document{match.Path, docIdx, docs[docIdx]}
			}
		}
	}()
	return documentsChannel(documents), nil
}

// ResourceDocuments yields the documents of a resolved corpus.
func ResourceDocuments(source string, rsrcs *resources.Resources,
	separator string, sanitize bool) (DocumentsIterator, error) {
	name, err := rsrcs.CorpusName()
	if err != nil {
		return nil, err
	}
	log.Printf("Splitting %s from %s", name, source)
	docs, err := rsrcs.Documents(separator, documentFilter(sanitize))
	if err != nil {
		return nil, err
	}
	docIdx := 0
	return func() *Document {
		if docIdx >= len(docs) {
			return nil
		}
		document := &Document{source, docIdx, docs[docIdx]}
		docIdx++
		return document
	}, nil
}
