package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/comalice/staterouter/internal/core"
)

const snapshotPrefix = "snap/"

// BadgerRegistry is a core.Registry storing every committed snapshot in
// BadgerDB under snap/<routerID>/<sequence>. It also satisfies
// core.Persister, loading the latest snapshot.
type BadgerRegistry struct {
	db *badger.DB
}

// OpenBadgerRegistry opens a registry at dir, or in memory when dir is "".
func OpenBadgerRegistry(dir string) (*BadgerRegistry, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerRegistry{db: db}, nil
}

// NewBadgerRegistry wraps an already open database. The caller keeps
// ownership of db.
func NewBadgerRegistry(db *badger.DB) *BadgerRegistry {
	return &BadgerRegistry{db: db}
}

// Close closes the underlying database.
func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}

func routerPrefix(routerID string) []byte {
	return []byte(snapshotPrefix + routerID + "/")
}

func snapshotKey(routerID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", snapshotPrefix, routerID, seq))
}

func (r *BadgerRegistry) Register(ctx context.Context, routerID string, snapshot core.Snapshot) error {
	if routerID == "" || strings.Contains(routerID, "/") {
		return fmt.Errorf("invalid router ID %q", routerID)
	}
	snapshot.RouterID = routerID
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	key := snapshotKey(routerID, snapshot.Sequence)
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("router %q sequence %d: %w", routerID, snapshot.Sequence, core.ErrExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

func (r *BadgerRegistry) Latest(ctx context.Context, routerID string) (core.Snapshot, error) {
	var snapshot core.Snapshot
	prefix := routerPrefix(routerID)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(append(append([]byte{}, prefix...), 0xff))
		if !it.ValidForPrefix(prefix) {
			return fmt.Errorf("router %q: %w", routerID, core.ErrNotFound)
		}
		return it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &snapshot)
		})
	})
	return snapshot, err
}

func (r *BadgerRegistry) Version(ctx context.Context, routerID string, seq uint64) (core.Snapshot, error) {
	var snapshot core.Snapshot
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(routerID, seq))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("router %q sequence %d: %w", routerID, seq, core.ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snapshot)
		})
	})
	return snapshot, err
}

func (r *BadgerRegistry) ListVersions(ctx context.Context, routerID string) ([]uint64, error) {
	var versions []uint64
	prefix := routerPrefix(routerID)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append(append([]byte{}, prefix...), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			seq, err := strconv.ParseUint(strings.TrimPrefix(key, string(prefix)), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt key %q: %w", key, err)
			}
			versions = append(versions, seq)
		}
		return nil
	})
	if err == nil && len(versions) == 0 {
		return nil, fmt.Errorf("router %q: %w", routerID, core.ErrNotFound)
	}
	return versions, err
}

func (r *BadgerRegistry) ListRouters(ctx context.Context) ([]string, error) {
	var routers []string
	prefix := []byte(snapshotPrefix)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		last := ""
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rest := strings.TrimPrefix(string(it.Item().Key()), snapshotPrefix)
			id, _, _ := strings.Cut(rest, "/")
			if id != last {
				routers = append(routers, id)
				last = id
			}
		}
		return nil
	})
	return routers, err
}

// Save implements core.Persister.
func (r *BadgerRegistry) Save(ctx context.Context, snapshot core.Snapshot) error {
	return r.Register(ctx, snapshot.RouterID, snapshot)
}

// Load implements core.Persister.
func (r *BadgerRegistry) Load(ctx context.Context, routerID string) (core.Snapshot, error) {
	return r.Latest(ctx, routerID)
}
