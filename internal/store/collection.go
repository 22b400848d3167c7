package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/hearth/internal/entity"
)

// Collection persists one kind of record.
//
// Methods block until the backend answers; callers that must stay
// responsive run them on their own goroutine.
type Collection[T entity.Entity] interface {
	// GetAll returns the full collection in backend order.
	GetAll(ctx context.Context) []T
	// Add appends item. Ids are not checked for uniqueness.
	Add(ctx context.Context, item T) []T
	// Update merges patch into every record with id. No match is a no-op.
	Update(ctx context.Context, id string, patch entity.Patch) []T
	// Delete removes every record with id. No match is a no-op.
	Delete(ctx context.Context, id string) []T
	// SetAll replaces the collection with exactly items.
	SetAll(ctx context.Context, items []T) []T
}

// Patch is re-exported for callers that only import store.
type Patch = entity.Patch

// Backend names where a collection lives.
type Backend string

const (
	// BackendLocal keeps a kind as one blob in a kv.Store.
	BackendLocal Backend = "local"
	// BackendRemote keeps a kind as rows in a remote table.
	BackendRemote Backend = "remote"
)

var (
	// ErrStorageUnavailable wraps failed local writes (quota, disk, ...).
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRemote wraps failed remote statements.
	ErrRemote = errors.New("remote store error")
	// ErrAlreadyBound is returned when a kind is bound twice.
	ErrAlreadyBound = errors.New("collection already bound")
)

// Option configures a collection or a Factory.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  *Metrics
	notifier Notifier
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records every operation in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithNotifier sets who is told about failed local writes.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
