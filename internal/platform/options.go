package platform

import (
	"log/slog"

	"github.com/aretw0/rolodex/pkg/core"
)

// options holds the internal configuration for the Rolodex service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	clock      core.Clock
	adapter    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring Rolodex.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git commits of every snapshot write.
// When not set, versioning is detected from the presence of a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the time source used to classify meetings.
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRepository injects a custom storage adapter.
// If provided, the adapter selected by WithAdapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "badger" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the snapshot encoding of the fs adapter (".json" or ".yaml").
func WithFormat(ext string) Option {
	return func(o *options) {
		o.config["format"] = ext
	}
}

// WithSystemDir sets the hidden directory name (defaults to ".rolodex").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithStrict rejects unknown fields when decoding snapshots.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Mutations return ErrReadOnly.
// 2. Initialization (Mkdir, Git Init) is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), paths outside the temp dir are re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

func (o *options) flag(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}

func (o *options) text(key string) string {
	v, _ := o.config[key].(string)
	return v
}
