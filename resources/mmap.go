//go:build !wasip1 && !js

package resources

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// readMmap maps a corpus file read-only. Empty files cannot be mapped, so
// they read as an empty slice.
func readMmap(file *os.File) (*[]byte, error) {
	stat, statErr := file.Stat()
	if statErr != nil {
		return nil, statErr
	}
	if stat.Size() == 0 {
		empty := make([]byte, 0)
		return &empty, nil
	}
	fileMmap, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	mmapBytes := (*[]byte)(&fileMmap)
	return mmapBytes, mmapErr
}
