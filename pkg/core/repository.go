package core

import "context"

// Repository defines the contract for persisting the rolodex state.
// The format is opaque to the core; implementations must round-trip every
// field of Contact and Meeting unchanged, including a nil Meeting.Notes.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories, git init).
	Initialize(ctx context.Context) error

	// Load reads the last saved snapshot. An empty store yields an empty Snapshot.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, s Snapshot) error
}

// Closer is implemented by repositories holding resources (e.g. an open database).
type Closer interface {
	Close() error
}

type contextKey string

// ChangeReasonKey is the context key for passing the change reason (commit message) to Save.
const ChangeReasonKey contextKey = "change_reason"
