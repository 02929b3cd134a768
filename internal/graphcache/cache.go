package graphcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"typegen/internal/features"
	"typegen/internal/generator"
)

// Key identifies a cache entry: the SHA-256 of the exact configuration that
// would reproduce a generation run.
type Key [sha256.Size]byte

// KeyFor derives the cache key for a given seed/size/features/params
// combination, matching values byte-for-byte to ensure the cache is only
// ever a hit for a configuration that would generate identical output.
func KeyFor(seed int64, n int, fset features.Set, params generator.Params) Key {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
	h.Write([]byte{
		boolByte(fset.SharedEverything),
		boolByte(fset.ExceptionHandling),
		boolByte(fset.Multivalue),
		boolByte(fset.SIMD),
	})
	binary.LittleEndian.PutUint32(buf[:4], params.MaxTupleSize)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], params.MaxParams)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], params.MaxStructSize)
	h.Write(buf[:4])
	var key Key
	copy(key[:], h.Sum(nil))
	return key
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// IsSHA256 sanity-checks that key is not the zero value.
func IsSHA256(key Key) bool {
	var zero Key
	return key != zero
}

// Cache is a thread-safe on-disk store of generation Snapshots, keyed by
// Key. It follows the teacher toolchain's on-disk module cache: msgpack
// payloads under an XDG cache directory, written atomically via a temp file
// and rename.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes (creating if necessary) the cache directory for app.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Key) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "graphs", hexKey+".mp")
}

// Put serializes and atomically writes snap under key.
func (c *Cache) Put(key Key, snap Snapshot) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "graphcache: failed to remove temp file: %v\n", err)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(&snap); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes the Snapshot stored under key, if any.
func (c *Cache) Get(key Key) (Snapshot, bool, error) {
	if c == nil {
		return Snapshot{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, false, err
	}
	if snap.Schema != schemaVersion {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// DropAll invalidates the entire cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
