// Package adapters holds the hexagonal boundary's outward-facing
// implementations: a bbolt-backed pool cache, a go-flock mutation
// lock, a godirwalk testcase-fixture walker, and a go-shutil atomic
// cache-directory replace. Each wraps exactly one third-party library
// the way the teacher's own adapters wrap apt/pip tooling — a thin,
// error-wrapped shim with no domain logic of its own.
package adapters

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"depcore/internal/ports"
	"depcore/internal/shared"
)

var _ ports.PoolCachePort = (*PoolCache)(nil)

var poolsBucket = []byte("pools")

// PoolCache persists serialized ".solv" blobs (see internal/solvfile)
// keyed by an opaque cache key (typically a repo name plus a checksum
// of its source metadata), backed by a single bbolt file. Grounded on
// the teacher's own source cache in spirit: golang-dep's
// boltCache/singleSourceCacheBolt wraps one bolt.DB behind
// Update/View-scoped bucket helpers; this adapter keeps that same
// "one top-level bucket, byte-slice values" shape since a pool
// snapshot is already a flat binary blob with no further structure to
// model as nested buckets.
type PoolCache struct {
	db  *bolt.DB
	log zerolog.Logger
}

// OpenPoolCache opens (creating if necessary) a bbolt-backed cache
// file under dir, matching golang-dep's sourceCachePath convention of
// deriving the backing file's path from a cache directory root.
func OpenPoolCache(dir string, log zerolog.Logger) (*PoolCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, shared.WrapInternal("adapters", "creating pool cache directory", err)
	}
	path := filepath.Join(dir, "pool-cache.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, shared.WrapInternal("adapters", "opening pool cache "+path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(poolsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, shared.WrapInternal("adapters", "initializing pool cache bucket", err)
	}
	return &PoolCache{db: db, log: log}, nil
}

// Put stores data under key, overwriting any previous entry.
func (c *PoolCache) Put(key string, data []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(poolsBucket).Put([]byte(key), data)
	})
}

// Get retrieves the blob stored under key, if any. The returned slice
// is a copy, safe to use after the transaction closes (bbolt's own
// Get return value is only valid for the lifetime of the transaction).
func (c *PoolCache) Get(key string) ([]byte, bool, error) {
	var data []byte
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(poolsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		data = append([]byte{}, v...)
		return nil
	})
	return data, found, err
}

// Delete removes key's entry, if present.
func (c *PoolCache) Delete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(poolsBucket).Delete([]byte(key))
	})
}

// Keys lists every cache key currently stored.
func (c *PoolCache) Keys() ([]string, error) {
	var keys []string
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(poolsBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Close releases the underlying bbolt file handle.
func (c *PoolCache) Close() error {
	if err := c.db.Close(); err != nil {
		return shared.WrapInternal("adapters", "closing pool cache", err)
	}
	return nil
}
