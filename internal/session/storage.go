// AngelaMos | 2026
// storage.go

package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSlotEmpty is returned by CartStorage.Load when nothing was saved yet.
var ErrSlotEmpty = errors.New("cart slot empty")

// CartStorage is a single named slot holding the serialized cart.
type CartStorage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Ping(ctx context.Context) error
}

type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Ping(_ context.Context) error {
	return nil
}

// FileStorage keeps the slot in <dir>/<slot>.json on the local disk.
type FileStorage struct {
	dir  string
	path string
}

func NewFileStorage(dir, slot string) *FileStorage {
	return &FileStorage{
		dir:  dir,
		path: filepath.Join(dir, slot+".json"),
	}
}

func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read cart slot: %w", err)
	}
	return data, nil
}

// Save writes through a temp file and a rename so a crash never leaves a
// half written slot behind.
func (f *FileStorage) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write cart slot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close cart slot: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace cart slot: %w", err)
	}

	return nil
}

func (f *FileStorage) Ping(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("cart dir not usable: %w", err)
	}
	return nil
}

// RedisStorage keeps the slot under a single redis key. A zero TTL keeps
// the key forever.
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStorage(
	client *redis.Client,
	keyPrefix, slot string,
	ttl time.Duration,
) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    keyPrefix + slot,
		ttl:    ttl,
	}
}

func (r *RedisStorage) Key() string {
	return r.key
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("get cart slot: %w", err)
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cart slot: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

var (
	_ CartStorage = (*MemoryStorage)(nil)
	_ CartStorage = (*FileStorage)(nil)
	_ CartStorage = (*RedisStorage)(nil)
)
