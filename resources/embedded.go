package resources

import (
	"embed"
	"sort"
)

//go:embed data/spam/corpus.txt
//go:embed data/spam/rgrams_config.yaml
//go:embed data/nursery/corpus.txt
//go:embed data/nursery/rgrams_config.json
var f embed.FS

// GetEmbeddedResource
// Returns a ResourceEntry for the given resource name that is embedded in
// the binary.
func GetEmbeddedResource(path string) *ResourceEntry {
	resourceFile, err := f.Open("data/" + path)
	if err != nil {
		return nil
	}
	resourceBytes, err := f.ReadFile("data/" + path)
	if err != nil {
		resourceFile.Close()
		return nil
	}
	return &ResourceEntry{resourceFile, &resourceBytes}
}

// EmbeddedDirExists
// Returns true if the given directory is embedded in the binary, otherwise
// false and an error.
func EmbeddedDirExists(path string) (bool, error) {
	if _, err := f.ReadDir("data/" + path); err != nil {
		return false, err
	} else {
		return true, nil
	}
}

// EmbeddedCorpora
// Returns the ids of the corpora embedded in the binary.
func EmbeddedCorpora() []string {
	entries, _ := f.ReadDir("data")
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids
}
