package base44

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
)

// TokenStorage is the narrow persistence contract the client requires. The
// concrete medium is an external collaborator: browser-style hosts inject
// their own, server hosts can use the file or NATS KV backends below.
type TokenStorage interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	// StorageTypeMemory holds tokens in process memory only.
	StorageTypeMemory StorageType = "memory"

	// StorageTypeFile persists tokens under a directory, one file per key.
	StorageTypeFile StorageType = "file"

	// StorageTypeNATS persists tokens in a NATS JetStream KV bucket.
	StorageTypeNATS StorageType = "nats"
)

// Static errors for storage construction.
var (
	ErrNATSConfigRequired      = errors.New("NATS configuration required for NATS storage")
	ErrFileConfigRequired      = errors.New("file configuration required for file storage")
	ErrUnsupportedStorageType  = errors.New("unsupported storage type")
	ErrKeyNotFoundInAnyStorage = errors.New("key not found in any storage")
)

// StorageConfig configures a storage backend.
type StorageConfig struct {
	// Type is the storage backend type
	Type StorageType

	// File storage configuration
	File *FileStorageConfig

	// NATS KV storage configuration
	NATS *NATSKVConfig
}

// FileStorageConfig configures file storage.
type FileStorageConfig struct {
	// Dir is the directory holding one file per key.
	Dir string
}

// NATSKVConfig configures NATS KV storage.
type NATSKVConfig struct {
	// URL is the NATS server URL.
	URL string

	// Bucket is the KV bucket name, created if absent.
	Bucket string

	// Credentials is an optional path to a NATS credentials file.
	Credentials string
}

// NewStorageFromConfig creates a storage backend from configuration.
func NewStorageFromConfig(config *StorageConfig) (TokenStorage, error) {
	if config == nil {
		return NewMemoryStorage(), nil
	}

	switch config.Type {
	case StorageTypeMemory, "":
		return NewMemoryStorage(), nil

	case StorageTypeFile:
		if config.File == nil {
			return nil, ErrFileConfigRequired
		}

		return NewFileStorage(config.File.Dir)

	case StorageTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVStorage(config.NATS)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStorageType, config.Type)
	}
}

// MemoryStorage holds items in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string]string),
	}
}

// GetItem implements TokenStorage.GetItem.
func (s *MemoryStorage) GetItem(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return "", ErrItemNotFound
	}

	return value, nil
}

// SetItem implements TokenStorage.SetItem.
func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value

	return nil
}

// RemoveItem implements TokenStorage.RemoveItem.
func (s *MemoryStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

// FileStorage persists items under a directory, one file per key with
// restrictive permissions.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed and returns the storage.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, ErrFileConfigRequired
	}

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	// Keys are client-chosen constants, but flatten separators anyway.
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key)

	return filepath.Join(s.dir, safe)
}

// GetItem implements TokenStorage.GetItem.
func (s *FileStorage) GetItem(key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrItemNotFound
		}

		return "", fmt.Errorf("reading storage item: %w", err)
	}

	return string(data), nil
}

// SetItem implements TokenStorage.SetItem.
func (s *FileStorage) SetItem(key, value string) error {
	err := os.WriteFile(s.path(key), []byte(value), 0o600)
	if err != nil {
		return fmt.Errorf("writing storage item: %w", err)
	}

	return nil
}

// RemoveItem implements TokenStorage.RemoveItem.
func (s *FileStorage) RemoveItem(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing storage item: %w", err)
	}

	return nil
}

// NATSKVStorage persists items in a NATS JetStream KV bucket, for hosts that
// share one token across processes.
type NATSKVStorage struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVStorage connects to NATS and binds (or creates) the bucket.
func NewNATSKVStorage(config *NATSKVConfig) (*NATSKVStorage, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	var opts []nats.Option
	if config.Credentials != "" {
		opts = append(opts, nats.UserCredentials(config.Credentials))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: config.Bucket})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket: %w", err)
	}

	return &NATSKVStorage{conn: conn, kv: kv}, nil
}

// GetItem implements TokenStorage.GetItem.
func (s *NATSKVStorage) GetItem(key string) (string, error) {
	entry, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return "", ErrItemNotFound
		}

		return "", fmt.Errorf("getting KV entry: %w", err)
	}

	return string(entry.Value()), nil
}

// SetItem implements TokenStorage.SetItem.
func (s *NATSKVStorage) SetItem(key, value string) error {
	_, err := s.kv.PutString(key, value)
	if err != nil {
		return fmt.Errorf("putting KV entry: %w", err)
	}

	return nil
}

// RemoveItem implements TokenStorage.RemoveItem.
func (s *NATSKVStorage) RemoveItem(key string) error {
	err := s.kv.Delete(key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting KV entry: %w", err)
	}

	return nil
}

// Close releases the NATS connection.
func (s *NATSKVStorage) Close() {
	s.conn.Close()
}

// StorageChain reads through storage backends in order and writes to all of
// them, so a fast local backend can front a shared one.
type StorageChain struct {
	backends []TokenStorage
}

// NewStorageChain creates a new storage chain.
func NewStorageChain(backends ...TokenStorage) *StorageChain {
	return &StorageChain{backends: backends}
}

// GetItem returns the first hit, populating earlier backends on the way out.
func (c *StorageChain) GetItem(key string) (string, error) {
	for i, backend := range c.backends {
		value, err := backend.GetItem(key)
		if err == nil {
			for j := range i {
				_ = c.backends[j].SetItem(key, value)
			}

			return value, nil
		}
	}

	return "", ErrKeyNotFoundInAnyStorage
}

// SetItem stores the item in all backends.
func (c *StorageChain) SetItem(key, value string) error {
	var lastErr error

	for _, backend := range c.backends {
		err := backend.SetItem(key, value)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// RemoveItem removes the item from all backends.
func (c *StorageChain) RemoveItem(key string) error {
	var lastErr error

	for _, backend := range c.backends {
		err := backend.RemoveItem(key)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}
