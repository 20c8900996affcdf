package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a key does not exist
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidKey is returned for keys that are empty or could escape the storage root
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Storage interface for exchange log persistence
type Storage interface {
	// Put stores data under key and returns the location it was written to
	Put(ctx context.Context, key string, data io.Reader) (string, error)

	// Get retrieves the object stored under key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// DefaultLocalPath is where exchange logs are written by default
const DefaultLocalPath = "./logs"

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Prefix     string // Key prefix inside the bucket
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		localPath := cfg.LocalPath
		if localPath == "" {
			localPath = DefaultLocalPath
		}
		return NewLocalStorage(localPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ExchangeLogKey returns the object key for an exchange log started at t
func ExchangeLogKey(id uuid.UUID, t time.Time) string {
	return fmt.Sprintf("chat-%d-%s.log", t.UnixMilli(), id.String())
}

// validateKey rejects keys that could escape the storage root
func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
