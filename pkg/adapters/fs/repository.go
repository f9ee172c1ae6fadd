package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/rolodex/pkg/adapters/snapshot"
	"github.com/aretw0/rolodex/pkg/core"
	"github.com/aretw0/rolodex/pkg/git"
)

const (
	// DefaultSystemDir marks a directory as a rolodex vault.
	DefaultSystemDir = ".rolodex"
	// SnapshotName is the base name of the snapshot file inside the vault.
	SnapshotName = "rolodex"
)

// Repository implements core.Repository as a single snapshot file, optionally versioned with Git.
type Repository struct {
	Path       string
	git        *git.Client
	config     Config
	serializer Serializer
	logger     *slog.Logger
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	AutoInit  bool
	Gitless   bool
	MustExist bool
	ReadOnly  bool
	Strict    bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".rolodex"
	Format    string // snapshot extension, ".json" (default) or ".yaml"
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Format == "" {
		config.Format = ".json"
	}
	if !strings.HasPrefix(config.Format, ".") {
		config.Format = "." + config.Format
	}
	serializer, ok := DefaultSerializers(config.Strict)[config.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported snapshot format %q", config.Format)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Repository{
		Path:       config.Path,
		git:        git.NewClient(config.Path, config.SystemDir+".lock", logger),
		config:     config,
		serializer: serializer,
		logger:     logger,
	}, nil
}

// Filename returns the absolute path of the snapshot file.
func (r *Repository) Filename() string {
	return filepath.Join(r.Path, SnapshotName+r.config.Format)
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		return nil
	}

	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	}
	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	if r.config.Gitless {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}
	if _, err := r.ensureIgnore(); err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	return nil
}

// ensureIgnore keeps the git lock file out of version control.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + ".lock"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the snapshot file. A missing file is an empty vault.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, error) {
	f, err := os.Open(r.Filename())
	if os.IsNotExist(err) {
		r.logger.Debug("no snapshot yet", "file", r.Filename())
		return core.Snapshot{}, nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	doc, err := r.serializer.Decode(f)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", r.Filename(), err)
	}
	return snapshot.ToCore(doc)
}

// Save writes the snapshot atomically and commits it to Git when versioning is on.
// If the commit fails the previous file content is put back, so a failed Save
// never leaves the new snapshot on disk.
func (r *Repository) Save(ctx context.Context, s core.Snapshot) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	data, err := r.serializer.Encode(snapshot.FromCore(s))
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if r.config.Gitless {
		if err := writeFileAtomic(r.Filename(), data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.logger.Debug("snapshot written", "file", r.Filename(), "bytes", len(data))
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	prev, err := os.ReadFile(r.Filename())
	existed := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read previous snapshot: %w", err)
	}

	if err := writeFileAtomic(r.Filename(), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	r.logger.Debug("snapshot written", "file", r.Filename(), "bytes", len(data))

	if err := r.commit(ctx); err != nil {
		if rerr := r.revert(prev, existed); rerr != nil {
			return fmt.Errorf("%w (revert failed: %v)", err, rerr)
		}
		r.logger.Warn("snapshot reverted after failed commit", "file", r.Filename(), "error", err)
		return err
	}
	return nil
}

// commit stages and commits the snapshot file. The caller holds the git lock.
func (r *Repository) commit(ctx context.Context) error {
	name := filepath.Base(r.Filename())
	if err := r.git.Add(name); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if !r.git.HasStagedChanges() {
		return nil
	}

	msg := git.FormatChangeReason(git.CommitTypeChore, "snapshot", "update "+name, "")
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = git.AppendFooter(val)
	}
	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// revert puts the snapshot file and its index entry back to the state before Save.
func (r *Repository) revert(prev []byte, existed bool) error {
	name := filepath.Base(r.Filename())
	if !existed {
		if err := os.Remove(r.Filename()); err != nil && !os.IsNotExist(err) {
			return err
		}
		return r.git.Unstage(name)
	}
	if err := writeFileAtomic(r.Filename(), prev, 0644); err != nil {
		return err
	}
	return r.git.Add(name)
}
