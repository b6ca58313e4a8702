package resources

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wbrown/rgrams/types"
)

type jsonlLine struct {
	Text string `json:"text"`
}

// TextFilter rewrites the text of a single document before it is split
// into unigrams. A nil TextFilter leaves the text as is.
type TextFilter func(string) string

func (filter TextFilter) apply(text string) string {
	if filter == nil {
		return text
	}
	return filter(text)
}

// SplitDocuments
// Splits text into documents on separator, and each document into its
// whitespace-separated unigrams. filter runs on each document after the
// split, so it cannot remove a separator. Documents without any unigrams
// are dropped.
func SplitDocuments(text string, separator string,
	filter TextFilter) []types.Tokens {
	if separator == "" {
		separator = DefaultDocumentSeparator
	}
	parts := strings.Split(text, separator)
	docs := make([]types.Tokens, 0, len(parts))
	for _, part := range parts {
		if tokens := types.TokensFromText(filter.apply(part)); len(tokens) > 0 {
			docs = append(docs, tokens)
		}
	}
	return docs
}

// JSONLDocuments
// Reads one document per line from the `text` field of JSONL records,
// passing each through filter.
func JSONLDocuments(reader io.Reader, filter TextFilter) ([]types.Tokens,
	error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	docs := make([]types.Tokens, 0)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record jsonlLine
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, errors.New(fmt.Sprintf(
				"error parsing JSONL line %d: %s", lineNum, err))
		}
		if tokens := types.TokensFromText(filter.apply(record.Text)); len(tokens) > 0 {
			docs = append(docs, tokens)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Documents
// Splits the resolved corpus into documents. JSONL corpora have one
// document per record; text corpora are split on separator. Every
// document's text goes through filter first.
func (rsrcs *Resources) Documents(separator string,
	filter TextFilter) ([]types.Tokens, error) {
	name, err := rsrcs.CorpusName()
	if err != nil {
		return nil, err
	}
	data := *(*rsrcs)[name].Data
	if name == CorpusJSONL {
		return JSONLDocuments(bytes.NewReader(data), filter)
	}
	return SplitDocuments(string(data), separator, filter), nil
}
