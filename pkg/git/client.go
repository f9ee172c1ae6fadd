// Package git runs the git CLI to version the rolodex snapshot.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockTimeout bounds how long Lock waits for another process.
const DefaultLockTimeout = 10 * time.Second

// ErrLockTimeout is returned when the lock file stays held past the timeout.
// A lock left behind by a killed process must be removed by hand.
var ErrLockTimeout = errors.New("git lock timeout")

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
	lockPath    string
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".rolodex.lock"
	}
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: DefaultLockTimeout,
		lockPath:    lockName,
	}
}

// IsInstalled reports whether a git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Lock acquires a file-based lock, waiting at most LockTimeout for it.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	deadline := time.Now().Add(c.LockTimeout)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if os.IsExist(err) {
			if !time.Now().Before(deadline) {
				return nil, fmt.Errorf("%w: %s held for more than %s", ErrLockTimeout, fullLockPath, c.LockTimeout)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock. The caller must hold Client.Lock() when mutating.
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Re-running it is harmless.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges() bool {
	// exit status 1 means there are differences
	_, err := c.Run("diff", "--cached", "--quiet")
	return err != nil
}

// Commit records changes to the repository.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// Unstage removes files from the index, leaving the working tree alone.
func (c *Client) Unstage(files ...string) error {
	args := append([]string{"rm", "--cached", "--quiet", "--ignore-unmatch", "--"}, files...)
	_, err := c.Run(args...)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// Subjects returns the subject lines of the last n commits, newest first.
func (c *Client) Subjects(n int) ([]string, error) {
	out, err := c.Run("log", fmt.Sprintf("-%d", n), "--format=%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
