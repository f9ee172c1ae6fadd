package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the namespace under os.TempDir() that sandboxes dev runs.
const DevDirName = "rolodex-dev"

// IsDevRun reports whether the process is a `go run` or `go test` binary.
// Both are built into the temp dir, and test binaries end in ".test".
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveVaultPath returns the path the vault should actually live at.
// With sandbox set, paths outside the temp dir are re-rooted under DevDirName
// so dev runs never touch the caller's working tree.
func ResolveVaultPath(userPath string, sandbox bool) string {
	if !sandbox {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), DevDirName, name)
}
