package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultDocumentSeparator = "\n"

// GeneratorConfig holds the r-gram generator settings a corpus ships with.
// Unset fields are nil, so callers can tell them apart from zero values.
type GeneratorConfig struct {
	MinFreq           *int    `json:"min_freq,omitempty" yaml:"min_freq,omitempty"`
	MaxIter           *int    `json:"max_iter,omitempty" yaml:"max_iter,omitempty"`
	DocumentSeparator *string `json:"document_separator,omitempty" yaml:"document_separator,omitempty"`
	Sanitize          *bool   `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
}

// ParseConfig
// Parses a GeneratorConfig from JSON or YAML, as given by format.
func ParseConfig(data []byte, format string) (*GeneratorConfig, error) {
	var config GeneratorConfig
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, errors.New(fmt.Sprintf(
				"error unmarshalling json config: %s", err))
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.New(fmt.Sprintf(
				"error unmarshalling yaml config: %s", err))
		}
	default:
		return nil, errors.New(fmt.Sprintf(
			"unknown config format `%s`", format))
	}
	return &config, nil
}

// LoadConfig
// Reads a GeneratorConfig from a file, using the file extension to pick
// the format.
func LoadConfig(configPath string) (*GeneratorConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data, strings.TrimPrefix(filepath.Ext(configPath),
		"."))
}

// Config
// Returns the GeneratorConfig resolved with the corpus, or an empty one if
// the corpus has none. JSON wins over YAML when both exist.
func (rsrcs *Resources) Config() (*GeneratorConfig, error) {
	if entry, ok := (*rsrcs)[ConfigJSON]; ok {
		return ParseConfig(*entry.Data, "json")
	}
	if entry, ok := (*rsrcs)[ConfigYAML]; ok {
		return ParseConfig(*entry.Data, "yaml")
	}
	return &GeneratorConfig{}, nil
}

// Merge fills the unset fields of config from other.
func (config *GeneratorConfig) Merge(other *GeneratorConfig) {
	if other == nil {
		return
	}
	if config.MinFreq == nil {
		config.MinFreq = other.MinFreq
	}
	if config.MaxIter == nil {
		config.MaxIter = other.MaxIter
	}
	if config.DocumentSeparator == nil {
		config.DocumentSeparator = other.DocumentSeparator
	}
	if config.Sanitize == nil {
		config.Sanitize = other.Sanitize
	}
}

func (config *GeneratorConfig) GetMinFreq(def int) int {
	if config.MinFreq == nil {
		return def
	}
	return *config.MinFreq
}

func (config *GeneratorConfig) GetMaxIter(def int) int {
	if config.MaxIter == nil {
		return def
	}
	return *config.MaxIter
}

func (config *GeneratorConfig) GetDocumentSeparator() string {
	if config.DocumentSeparator == nil || *config.DocumentSeparator == "" {
		return DefaultDocumentSeparator
	}
	return *config.DocumentSeparator
}

func (config *GeneratorConfig) GetSanitize() bool {
	return config.Sanitize != nil && *config.Sanitize
}
