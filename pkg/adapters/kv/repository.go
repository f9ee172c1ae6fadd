// Package kv stores the rolodex snapshot in an embedded Badger database,
// one key per contact and per meeting.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/aretw0/rolodex/pkg/adapters/snapshot"
	"github.com/aretw0/rolodex/pkg/core"
)

const (
	contactPrefix = "contact:"
	meetingPrefix = "meeting:"
	versionKey    = "meta:version"
)

// Config holds the configuration for the Badger repository.
type Config struct {
	Path     string
	InMemory bool
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository on top of Badger.
type Repository struct {
	db       *badger.DB
	log      *slog.Logger
	readOnly bool
	owned    bool
}

// NewRepository wraps an already opened database. The caller keeps ownership of db.
func NewRepository(db *badger.DB, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{db: db, log: log}
}

// Open opens (or creates) a database and returns a repository owning it.
func Open(config Config) (*Repository, error) {
	opts := badger.DefaultOptions(config.Path)
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil).WithReadOnly(config.ReadOnly && !config.InMemory)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}

	repo := NewRepository(db, config.Logger)
	repo.readOnly = config.ReadOnly
	repo.owned = true
	return repo, nil
}

// Initialize is a no-op: Badger creates its files on Open.
func (r *Repository) Initialize(ctx context.Context) error {
	return nil
}

// Load reads every contact and meeting record, ascending by id.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, error) {
	doc := snapshot.Document{Version: snapshot.Version}

	err := r.db.View(func(txn *badger.Txn) error {
		if err := scan(txn, contactPrefix, func(v []byte) error {
			var rec snapshot.ContactRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			doc.Contacts = append(doc.Contacts, rec)
			return nil
		}); err != nil {
			return fmt.Errorf("contacts: %w", err)
		}

		if err := scan(txn, meetingPrefix, func(v []byte) error {
			var rec snapshot.MeetingRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			doc.Meetings = append(doc.Meetings, rec)
			return nil
		}); err != nil {
			return fmt.Errorf("meetings: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Snapshot{}, err
	}

	r.log.Debug("snapshot loaded from badger", "contacts", len(doc.Contacts), "meetings", len(doc.Meetings))
	return snapshot.ToCore(doc)
}

// Save replaces every stored record in one transaction.
func (r *Repository) Save(ctx context.Context, s core.Snapshot) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	doc := snapshot.FromCore(s)

	return r.db.Update(func(txn *badger.Txn) error {
		for _, prefix := range []string{contactPrefix, meetingPrefix} {
			if err := deletePrefix(txn, prefix); err != nil {
				return err
			}
		}

		for _, c := range doc.Contacts {
			if err := set(txn, contactKey(c.ID), c); err != nil {
				return err
			}
		}
		for _, m := range doc.Meetings {
			if err := set(txn, meetingKey(m.ID), m); err != nil {
				return err
			}
		}
		return set(txn, versionKey, doc.Version)
	})
}

// Close releases the database if this repository opened it.
func (r *Repository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "badger"
}

// ids are zero padded so key order is id order
func contactKey(id int) string { return fmt.Sprintf("%s%010d", contactPrefix, id) }
func meetingKey(id int) string { return fmt.Sprintf("%s%010d", meetingPrefix, id) }

func set(txn *badger.Txn, key string, v any) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), bytes)
}

func scan(txn *badger.Txn, prefix string, fn func(v []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return fmt.Errorf("key %s: %w", it.Item().Key(), err)
		}
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false

	var keys [][]byte
	it := txn.NewIterator(opts)
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

var _ core.Repository = (*Repository)(nil)
var _ core.Closer = (*Repository)(nil)
