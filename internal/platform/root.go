package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/rolodex/pkg/adapters/fs"
)

// ErrRootNotFound is returned by FindRoot when no vault marker exists above the start dir.
var ErrRootNotFound = errors.New("root not found")

// rootMarkers name the entries that identify a vault directory.
var rootMarkers = []string{
	fs.DefaultSystemDir,
	fs.SnapshotName + ".json",
	fs.SnapshotName + ".yaml",
}

// FindRoot walks upwards from startDir looking for a vault marker and returns
// the absolute path of the first directory that holds one.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
