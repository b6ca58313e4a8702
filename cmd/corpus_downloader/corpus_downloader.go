package main

import (
	"flag"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/wbrown/rgrams/resources"
)

func main() {
	corpusId := flag.String("corpus", "",
		"corpus URL, path, or huggingface dataset id to fetch")
	destPath := flag.String("dest", "./",
		"where to download the corpus to")
	flag.Parse()
	if *corpusId == "" {
		flag.Usage()
		log.Fatal("Must provide -corpus")
	}

	if err := os.MkdirAll(*destPath, 0755); err != nil {
		log.Fatal(err)
	}
	rsrcs, rsrcErr := resources.ResolveResources(*corpusId, *destPath,
		resources.RESOURCE_ALL)
	if rsrcErr != nil {
		log.Fatalf("Error downloading corpus resources: %s", rsrcErr)
	}
	defer rsrcs.Cleanup()
	for _, name := range resources.GetResourceEntries().Names() {
		if entry, ok := (*rsrcs)[name]; ok {
			log.Printf("%s: %s", name,
				humanize.Bytes(uint64(len(*entry.Data))))
		}
	}
}
