package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/rolodex/pkg/adapters/fs"
	"github.com/aretw0/rolodex/pkg/adapters/kv"
	"github.com/aretw0/rolodex/pkg/core"
)

// InMemoryURI selects an in-memory Badger database when used with the "badger" adapter.
const InMemoryURI = ":memory:"

// New opens a Rolodex service on the vault at uri.
//
//	svc, err := rolodex.New("./contacts", rolodex.WithAutoInit(true))
//
// The uri is adapter-specific: a directory for "fs" and "badger", ignored for "memory".
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	svc, err := core.Open(context.Background(), repo,
		core.WithLogger(o.logger),
		core.WithClock(o.clock),
		core.WithReadOnly(o.flag("read_only")),
	)
	if err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return svc, nil
}

// Init prepares the storage for the vault at uri and returns the repository.
// It returns a nil repository for the "memory" adapter.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := apply(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs", "":
		repo, err = initFS(uri, o)
	case "badger":
		repo, err = initBadger(uri, o)
	case "memory":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return repo, nil
}

// resolvePath applies the dev sandbox unless read-only mode or an explicit opt-out bypasses it.
func resolvePath(uri string, o *options) (string, bool) {
	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}
	bypass := o.flag("read_only") || !devSafety
	useTemp := o.flag("temp_dir") || (IsDevRun() && !bypass)

	resolved := ResolveVaultPath(uri, useTemp)
	if o.logger != nil && useTemp && resolved != filepath.Clean(uri) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
	}
	return resolved, useTemp
}

func initFS(uri string, o *options) (core.Repository, error) {
	path, useTemp := resolvePath(uri, o)
	autoInit := o.flag("auto_init")

	gitless := o.flag("gitless")
	if _, explicit := o.config["gitless"]; !explicit {
		_, err := os.Stat(filepath.Join(path, ".git"))
		gitless = err != nil
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:      path,
		AutoInit:  autoInit,
		Gitless:   gitless,
		MustExist: o.flag("must_exist") || (!autoInit && !useTemp),
		ReadOnly:  o.flag("read_only"),
		Strict:    o.flag("strict"),
		Logger:    o.logger,
		SystemDir: o.text("system_dir"),
		Format:    o.text("format"),
	})
}

func initBadger(uri string, o *options) (core.Repository, error) {
	if uri == InMemoryURI {
		return kv.Open(kv.Config{InMemory: true, Logger: o.logger})
	}

	path, _ := resolvePath(uri, o)
	systemDir := o.text("system_dir")
	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}
	dbPath := filepath.Join(path, systemDir, "badger")

	readOnly := o.flag("read_only")
	if !readOnly {
		if err := os.MkdirAll(dbPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return kv.Open(kv.Config{Path: dbPath, ReadOnly: readOnly, Logger: o.logger})
}
