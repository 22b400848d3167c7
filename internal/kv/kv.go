// Package kv provides the device-local key-value backends behind the local
// collection cache. Each key holds one opaque blob; the backends know nothing
// about the records inside.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrQuotaExceeded is returned by Set when the backend has no room left for
// the value.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store holds whole blobs by key.
type Store interface {
	// Get returns the blob for key. ok is false if the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the blob for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateKey rejects keys that cannot be used as file names.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}
