package rolodex

import (
	"log/slog"
	"time"

	"github.com/aretw0/rolodex/internal/platform"
	"github.com/aretw0/rolodex/pkg/core"
	"github.com/aretw0/rolodex/pkg/git"
)

// --- Types ---

// Service is the contact manager: contacts, meetings and their persistence.
type Service = core.Service

// Contact is a person known to the manager.
type Contact = core.Contact

// Meeting is a dated gathering of contacts, classified as past or future at read time.
type Meeting = core.Meeting

// Clock supplies the current instant used for classification.
type Clock = core.Clock

// ClockFunc adapts a function to the Clock interface.
type ClockFunc = core.ClockFunc

// Classification is the derived past or future kind of a meeting.
type Classification = core.Classification

const (
	Future = core.Future
	Past   = core.Past
)

// NotesDelimiter separates notes appended to the same meeting.
const NotesDelimiter = core.NotesDelimiter

// Classify returns Past iff date is strictly before now.
func Classify(date, now time.Time) Classification {
	return core.Classify(date, now)
}

// --- Errors ---

var (
	ErrNullReference   = core.ErrNullReference
	ErrInvalidArgument = core.ErrInvalidArgument
	ErrInvalidState    = core.ErrInvalidState
	ErrPersistence     = core.ErrPersistence
	ErrReadOnly        = core.ErrReadOnly
)

// --- Configuration ---

// Option defines a functional option for configuring Rolodex.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git commits of snapshot writes.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock sets the time source used to classify meetings.
func WithClock(clock Clock) Option {
	return platform.WithClock(clock)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name ("fs", "badger" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects the snapshot encoding of the fs adapter.
func WithFormat(ext string) Option {
	return platform.WithFormat(ext)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".rolodex").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithStrict rejects unknown fields when decoding snapshots.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly opens the vault without ever writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens a Rolodex Service on the vault at path.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot recursively looks upwards for a vault root indicator.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Semantic Commits ---

const (
	CommitTypeFeat  = git.CommitTypeFeat
	CommitTypeFix   = git.CommitTypeFix
	CommitTypeChore = git.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return git.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the Rolodex footer to an arbitrary message.
func AppendFooter(msg string) string {
	return git.AppendFooter(msg)
}

// ChangeReasonKey carries a custom commit message for the next mutation in a context.
const ChangeReasonKey = core.ChangeReasonKey
