//go:build js || wasip1

package resources

import (
	"io"
	"os"
)

// readMmap reads the whole corpus file, as there is no mmap here.
func readMmap(file *os.File) (*[]byte, error) {
	contents, err := io.ReadAll(file)
	return &contents, err
}
