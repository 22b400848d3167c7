package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/kv"
)

// LocalCollection keeps a kind as one canonical JSON array in a kv.Store.
//
// Every mutation reads the whole blob, transforms it and writes it back. The
// mutex serializes those cycles within one process; two processes sharing a
// backend can still lose each other's writes.
type LocalCollection[T entity.Entity] struct {
	mu       sync.Mutex
	kv       kv.Store
	info     entity.KindInfo
	defaults []T
	logger   *slog.Logger
	metrics  *Metrics
	notifier Notifier
}

// NewLocalCollection binds kind to its blob key in store. defaults is what
// GetAll returns while the blob is absent or unreadable.
func NewLocalCollection[T entity.Entity](store kv.Store, kind entity.Kind, defaults []T, opts ...Option) (*LocalCollection[T], error) {
	info, ok := entity.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("local collection: unknown kind %q", kind)
	}
	if err := kv.ValidateKey(info.Key); err != nil {
		return nil, fmt.Errorf("local collection: %w", err)
	}
	o := buildOptions(opts)
	return &LocalCollection[T]{
		kv:       store,
		info:     info,
		defaults: clone(defaults),
		logger:   o.logger.With("collection", string(kind), "backend", string(BackendLocal)),
		metrics:  o.metrics,
		notifier: o.notifier,
	}, nil
}

func (c *LocalCollection[T]) GetAll(ctx context.Context) []T {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	items, failed := c.load(ctx)
	c.metrics.observe(string(c.info.Kind), BackendLocal, "get_all", start, failed)
	return items
}

func (c *LocalCollection[T]) Add(ctx context.Context, item T) []T {
	return c.mutate(ctx, "add", func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// Update rejects a patch naming a field the kind does not have, leaving
// the blob untouched.
func (c *LocalCollection[T]) Update(ctx context.Context, id string, patch entity.Patch) []T {
	return c.mutate(ctx, "update", func(items []T) ([]T, error) {
		if err := entity.CheckPatch(c.info, patch); err != nil {
			return nil, fmt.Errorf("update %s: %w", id, err)
		}
		out := make([]T, len(items))
		for i, item := range items {
			if item.EntityID() != id {
				out[i] = item
				continue
			}
			patched, err := entity.ApplyPatch(item, patch)
			if err != nil {
				return nil, fmt.Errorf("update %s: %w", id, err)
			}
			out[i] = patched
		}
		return out, nil
	})
}

func (c *LocalCollection[T]) Delete(ctx context.Context, id string) []T {
	return c.mutate(ctx, "delete", func(items []T) ([]T, error) {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if item.EntityID() != id {
				out = append(out, item)
			}
		}
		return out, nil
	})
}

// SetAll overwrites the blob with items and returns items unchanged, even
// when the write fails.
func (c *LocalCollection[T]) SetAll(ctx context.Context, items []T) []T {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	items = clone(items)
	failed := c.store(ctx, items) != nil
	c.metrics.observe(string(c.info.Kind), BackendLocal, "set_all", start, failed)
	return items
}

// mutate runs one read-modify-write cycle. If transform fails the blob is
// left alone and the current contents are returned. If the write fails the
// transformed slice is still returned.
func (c *LocalCollection[T]) mutate(ctx context.Context, op string, transform func([]T) ([]T, error)) []T {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	items, failed := c.load(ctx)
	next, err := transform(items)
	if err != nil {
		c.logger.Error("local transform failed", "op", op, "error", err)
		c.metrics.observe(string(c.info.Kind), BackendLocal, op, start, true)
		return items
	}
	if err := c.store(ctx, next); err != nil {
		failed = true
	}
	c.metrics.observe(string(c.info.Kind), BackendLocal, op, start, failed)
	return next
}

// load returns the decoded blob, or a copy of the defaults when the blob is
// absent, unreadable or corrupt. failed reports a read or decode error.
func (c *LocalCollection[T]) load(ctx context.Context) (items []T, failed bool) {
	data, ok, err := c.kv.Get(ctx, c.info.Key)
	if err != nil {
		c.logger.Error("local read failed", "key", c.info.Key, "error", err)
		return clone(c.defaults), true
	}
	if !ok {
		return clone(c.defaults), false
	}
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("local blob corrupt, using defaults", "key", c.info.Key, "error", err)
		return clone(c.defaults), true
	}
	if items == nil {
		// "null" decodes to a nil slice; treat it like an empty array.
		items = []T{}
	}
	return items, false
}

func (c *LocalCollection[T]) store(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := entity.MarshalCanonical(items)
	if err == nil {
		err = c.kv.Set(ctx, c.info.Key, data)
	}
	if err != nil {
		err = fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, c.info.Key, err)
		c.logger.Error("local write failed", "key", c.info.Key, "error", err)
		if c.notifier != nil {
			c.notifier.StorageUnavailable(c.info.Kind, err)
		}
		return err
	}
	return nil
}
