package fs

import (
	"os"
	"strings"

	"github.com/aretw0/introspection"

	"github.com/aretw0/rolodex/pkg/core"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path       string `json:"path"`
	File       string `json:"file"`
	Format     string `json:"format"`
	SystemDir  string `json:"system_dir"`
	Gitless    bool   `json:"gitless"`
	ReadOnly   bool   `json:"read_only"`
	Strict     bool   `json:"strict"`
	SnapshotOK bool   `json:"snapshot_exists"`
	// Pending lists uncommitted `git status --porcelain` entries; empty when gitless.
	Pending []string `json:"pending,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	_, err := os.Stat(r.Filename())
	var pending []string
	if !r.config.Gitless && r.git.IsRepo() {
		if out, serr := r.git.Status(); serr == nil && out != "" {
			pending = strings.Split(out, "\n")
		}
	}
	return RepositoryState{
		Path:       r.Path,
		File:       r.Filename(),
		Format:     r.config.Format,
		SystemDir:  r.config.SystemDir,
		Gitless:    r.config.Gitless,
		ReadOnly:   r.config.ReadOnly,
		Strict:     r.config.Strict,
		SnapshotOK: err == nil,
		Pending:    pending,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
var _ core.Repository = (*Repository)(nil)
