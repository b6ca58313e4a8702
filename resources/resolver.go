package resources

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type ResourceFlag uint8

// WriteCounter counts the number of bytes written to it, and every 10 seconds,
// it prints a message reporting the number of bytes written so far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Now().Sub(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Print(fmt.Sprintf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size)))
	}
	return n, nil
}

// Enumeration of resource flags that indicate what the resolver should do
// with the resource. Of the RESOURCE_ONEOF entries, the first one found is
// used, and at least one must be found.
const (
	RESOURCE_REQUIRED ResourceFlag = 1 << iota
	RESOURCE_OPTIONAL
	RESOURCE_ONEOF
)

const RESOURCE_ALL = RESOURCE_REQUIRED | RESOURCE_OPTIONAL | RESOURCE_ONEOF

const (
	CorpusText   = "corpus.txt"
	CorpusJSONL  = "corpus.jsonl"
	ConfigJSON   = "rgrams_config.json"
	ConfigYAML   = "rgrams_config.yaml"
	HFTokenEnv   = "HF_TOKEN"
	hfDatasetURL = "https://huggingface.co/datasets/"
)

type ResourceEntryDefs map[string]ResourceFlag
type ResourceEntry struct {
	file interface{}
	Data *[]byte
}

type Resources map[string]ResourceEntry

func (rsrcs *Resources) Cleanup() {
	for _, rsrc := range *rsrcs {
		switch t := rsrc.file.(type) {
		case *os.File:
			t.Close()
		case fs.File:
			t.Close()
		}
	}
}

// GetResourceEntries
// Returns a default map of resource entries that express what files are
// required, optional, and/or one of a set for a corpus.
func GetResourceEntries() ResourceEntryDefs {
	return ResourceEntryDefs{
		CorpusJSONL: RESOURCE_ONEOF,
		CorpusText:  RESOURCE_ONEOF,
		ConfigJSON:  RESOURCE_OPTIONAL,
		ConfigYAML:  RESOURCE_OPTIONAL,
	}
}

// Names returns the resource names in a stable order.
func (defs ResourceEntryDefs) Names() []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchHuggingFace
// Wrapper around FetchHTTP that fetches a dataset resource from
// huggingface.co.
func FetchHuggingFace(id string, rsrc string) (io.ReadCloser, error) {
	return FetchHTTP(hfDatasetURL+id+"/resolve/main", rsrc,
		os.Getenv(HFTokenEnv))
}

// SizeHuggingFace
// Wrapper around SizeHTTP that gets the size of a dataset resource from
// huggingface.co.
func SizeHuggingFace(id string, rsrc string) (uint, error) {
	return SizeHTTP(hfDatasetURL+id+"/resolve/main", rsrc,
		os.Getenv(HFTokenEnv))
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

func isLocalDir(uri string) bool {
	stat, err := os.Stat(uri)
	return err == nil && stat.IsDir()
}

// Fetch
// Given a base URI and a resource name, determines if the resource is local,
// remote, or from huggingface.co. If the resource is local, it returns a
// file handle to the resource. If the resource is remote, or from
// huggingface.co, it fetches the resource and returns a ReadCloser to the
// fetched resource.
func Fetch(uri string, rsrc string) (io.ReadCloser, error) {
	if isValidUrl(uri) {
		return FetchHTTP(uri, rsrc, "")
	} else if isLocalDir(uri) {
		if handle, fileErr := os.Open(path.Join(uri, rsrc)); fileErr != nil {
			return nil, errors.New(
				fmt.Sprintf("error opening %s/%s: %v",
					uri, rsrc, fileErr))
		} else {
			return handle, fileErr
		}
	} else {
		return FetchHuggingFace(uri, rsrc)
	}
}

// Size
// Given a base URI and a resource name, determine the size of the resource.
func Size(uri string, rsrc string) (uint, error) {
	if isValidUrl(uri) {
		return SizeHTTP(uri, rsrc, "")
	} else if isLocalDir(uri) {
		fsz, err := os.Stat(path.Join(uri, rsrc))
		if err != nil {
			return 0, err
		}
		return uint(fsz.Size()), nil
	} else {
		return SizeHuggingFace(uri, rsrc)
	}
}

// AddEntry
// Add a resource to the Resources map, opening it as a mmap.Map.
func (rsrcs *Resources) AddEntry(name string, file *os.File) error {
	fileMmap, mmapErr := readMmap(file)
	if mmapErr != nil {
		return errors.New(
			fmt.Sprintf("error trying to mmap file: %s",
				mmapErr))
	} else {
		(*rsrcs)[name] = ResourceEntry{file, fileMmap}
	}
	return nil
}

// CorpusName
// Returns the name of the corpus resource present, preferring JSONL.
func (rsrcs *Resources) CorpusName() (string, error) {
	for _, name := range []string{CorpusJSONL, CorpusText} {
		if _, ok := (*rsrcs)[name]; ok {
			return name, nil
		}
	}
	return "", errors.New(fmt.Sprintf("no `%s` or `%s` resolved",
		CorpusText, CorpusJSONL))
}

// download copies rsrc from uri into dir, logging progress.
func download(uri string, rsrc string, dir string,
	rsrcSize uint) (*os.File, error) {
	rsrcReader, rsrcErr := Fetch(uri, rsrc)
	if rsrcErr != nil {
		return nil, errors.New(
			fmt.Sprintf("cannot retrieve `%s` from `%s`: %s",
				rsrc, uri, rsrcErr))
	}
	defer rsrcReader.Close()
	rsrcFile, rsrcFileErr := os.OpenFile(path.Join(dir, rsrc),
		os.O_TRUNC|os.O_RDWR|os.O_CREATE, 0755)
	if rsrcFileErr != nil {
		return nil, errors.New(
			fmt.Sprintf("error opening '%s' for write: %s",
				rsrc, rsrcFileErr))
	}
	counter := &WriteCounter{
		Last: time.Now(),
		Path: fmt.Sprintf("%s/%s", uri, rsrc),
		Size: uint64(rsrcSize),
	}
	bytesDownloaded, ioErr := io.Copy(rsrcFile,
		io.TeeReader(rsrcReader, counter))
	if ioErr != nil {
		rsrcFile.Close()
		return nil, errors.New(
			fmt.Sprintf("error downloading '%s': %s", rsrc, ioErr))
	}
	log.Println(fmt.Sprintf("Downloaded %s/%s... %s completed.",
		uri, rsrc, humanize.Bytes(uint64(bytesDownloaded))))
	if _, seekErr := rsrcFile.Seek(0, 0); seekErr != nil {
		rsrcFile.Close()
		return nil, seekErr
	}
	return rsrcFile, nil
}

// ResolveResources resolves all resources at a given uri whose flag is in
// rsrcLvl. Local directories are opened in place. Remote resources are
// downloaded into dir, unless a file of the correct size already exists
// there.
func ResolveResources(uri string, dir string,
	rsrcLvl ResourceFlag) (*Resources, error) {
	foundResources := make(Resources, 0)
	defs := GetResourceEntries()
	local := isLocalDir(uri)
	foundOneOf := false
	wantOneOf := false

	for _, file := range defs.Names() {
		flag := defs[file]
		if flag&rsrcLvl == 0 {
			continue
		}
		if flag&RESOURCE_ONEOF != 0 {
			wantOneOf = true
			if foundOneOf {
				continue
			}
		}
		log.Printf("Resolving %s/%s... ", uri, file)
		rsrcSize, rsrcSizeErr := Size(uri, file)
		if rsrcSizeErr != nil {
			if flag&RESOURCE_REQUIRED != 0 {
				log.Printf("%s/%s not found, required!", uri, file)
				foundResources.Cleanup()
				return nil, errors.New(
					fmt.Sprintf(
						"cannot retrieve required `%s` from `%s`: %s",
						file, uri, rsrcSizeErr))
			}
			log.Printf("Resolved %s/%s... not there.", uri, file)
			continue
		}
		var rsrcFile *os.File
		targetPath := path.Join(dir, file)
		if local {
			openFile, openErr := os.Open(path.Join(uri, file))
			if openErr != nil {
				foundResources.Cleanup()
				return nil, openErr
			}
			rsrcFile = openFile
		} else if targetStat, targetStatErr := os.Stat(
			targetPath); targetStatErr == nil &&
			uint(targetStat.Size()) == rsrcSize {
			log.Printf("Skipping %s/%s... already exists, "+
				"and of the correct size.", uri, file)
			openFile, skipFileErr := os.Open(targetPath)
			if skipFileErr != nil {
				foundResources.Cleanup()
				return nil, errors.New(
					fmt.Sprintf("error opening '%s': %s",
						file, skipFileErr))
			}
			rsrcFile = openFile
		} else {
			downloaded, downloadErr := download(uri, file, dir, rsrcSize)
			if downloadErr != nil {
				foundResources.Cleanup()
				return nil, downloadErr
			}
			rsrcFile = downloaded
		}
		if mmapErr := foundResources.AddEntry(file,
			rsrcFile); mmapErr != nil {
			rsrcFile.Close()
			foundResources.Cleanup()
			return nil, mmapErr
		}
		if flag&RESOURCE_ONEOF != 0 {
			foundOneOf = true
		}
	}
	if wantOneOf && !foundOneOf {
		foundResources.Cleanup()
		return nil, errors.New(fmt.Sprintf(
			"cannot retrieve `%s` or `%s` from `%s`",
			CorpusText, CorpusJSONL, uri))
	}
	return &foundResources, nil
}

// resolveEmbedded gathers the resources of an embedded corpus.
func resolveEmbedded(corpusId string) (*Resources, error) {
	resources := make(Resources, 0)
	for _, name := range GetResourceEntries().Names() {
		if entry := GetEmbeddedResource(corpusId + "/" + name); entry != nil {
			resources[name] = *entry
		}
	}
	if _, err := resources.CorpusName(); err != nil {
		resources.Cleanup()
		return nil, err
	}
	return &resources, nil
}

// resolveFile treats a single local file as the corpus, JSONL if its
// extension says so.
func resolveFile(filePath string) (*Resources, error) {
	handle, openErr := os.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	name := CorpusText
	if strings.HasSuffix(filePath, ".jsonl") {
		name = CorpusJSONL
	}
	resources := make(Resources, 0)
	if addErr := resources.AddEntry(name, handle); addErr != nil {
		handle.Close()
		return nil, addErr
	}
	return &resources, nil
}

// ResolveCorpus
// Resolves a corpus id to a set of resources, from embedded, a local file,
// a local directory, an HTTP base URL, or a HuggingFace dataset, in that
// order. Downloads land in dir, or in a temporary directory when dir is
// empty.
func ResolveCorpus(uri string, dir string) (*Resources, error) {
	if _, embeddedErr := EmbeddedDirExists(uri); embeddedErr == nil {
		return resolveEmbedded(uri)
	}
	if stat, statErr := os.Stat(uri); statErr == nil && !stat.IsDir() {
		return resolveFile(uri)
	}
	if dir == "" && !isLocalDir(uri) {
		tempDir, dirErr := os.MkdirTemp("", "rgrams")
		if dirErr != nil {
			return nil, dirErr
		}
		// Mapped files stay readable after their directory is removed.
		defer os.RemoveAll(tempDir)
		dir = tempDir
	} else if dir != "" {
		if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
			return nil, mkdirErr
		}
	}
	return ResolveResources(uri, dir, RESOURCE_ALL)
}
