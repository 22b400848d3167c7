package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/kv"
)

// TableOpener opens the remote table that holds a kind.
type TableOpener interface {
	OpenTable(ctx context.Context, name string, info entity.KindInfo) (Table, error)
}

// TableOpenerFunc adapts a function to TableOpener.
type TableOpenerFunc func(ctx context.Context, name string, info entity.KindInfo) (Table, error)

func (f TableOpenerFunc) OpenTable(ctx context.Context, name string, info entity.KindInfo) (Table, error) {
	return f(ctx, name, info)
}

// FactoryConfig is everything a Factory needs to bind collections.
type FactoryConfig struct {
	// Local holds blobs for kinds that are not bound remotely. Required.
	Local kv.Store
	// Remote opens tables. Nil means no remote endpoint is configured.
	Remote TableOpener
	// Tables maps kinds to remote table names. Kinds without an entry are
	// always local.
	Tables map[entity.Kind]string
}

// Binding records where one kind was bound.
type Binding struct {
	Kind    entity.Kind `json:"kind"`
	Backend Backend     `json:"backend"`
	// Table is the remote table name; empty for local bindings.
	Table string `json:"table,omitempty"`
	// Key is the local blob key; empty for remote bindings.
	Key string `json:"key,omitempty"`
}

// Factory binds each kind to a backend exactly once.
type Factory struct {
	cfg  FactoryConfig
	opts []Option
	log  *slog.Logger

	mu       sync.Mutex
	bindings map[entity.Kind]Binding
}

// NewFactory validates cfg. opts are passed to every collection it creates.
func NewFactory(cfg FactoryConfig, opts ...Option) (*Factory, error) {
	if cfg.Local == nil {
		return nil, fmt.Errorf("new factory: local store is required")
	}
	for kind, name := range cfg.Tables {
		if _, ok := entity.Lookup(kind); !ok {
			return nil, fmt.Errorf("new factory: table %q mapped to unknown kind %q", name, kind)
		}
		if name == "" {
			return nil, fmt.Errorf("new factory: empty table name for kind %q", kind)
		}
	}
	return &Factory{
		cfg:      cfg,
		opts:     opts,
		log:      buildOptions(opts).logger,
		bindings: make(map[entity.Kind]Binding),
	}, nil
}

// RemoteConfigured reports whether a remote endpoint is available.
func (f *Factory) RemoteConfigured() bool {
	return f.cfg.Remote != nil
}

// Bindings returns the bindings made so far in kind registry order.
func (f *Factory) Bindings() []Binding {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Binding, 0, len(f.bindings))
	for _, kind := range entity.Kinds() {
		if b, ok := f.bindings[kind]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Bind returns the collection for kind: remote when a remote endpoint is
// configured and the kind has a table mapping, local otherwise. Binding a
// kind twice fails with ErrAlreadyBound.
//
// If the table cannot be opened the kind stays remote but without a table,
// so it reads as empty and drops writes for the rest of the session.
func Bind[T entity.Entity](ctx context.Context, f *Factory, kind entity.Kind, defaults []T) (Collection[T], error) {
	info, ok := entity.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("bind: unknown kind %q", kind)
	}
	if err := checkShape[T](info); err != nil {
		return nil, fmt.Errorf("bind %s: %w", kind, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bindings[kind]; ok {
		return nil, fmt.Errorf("bind %s: %w", kind, ErrAlreadyBound)
	}

	name, mapped := f.cfg.Tables[kind]
	if f.cfg.Remote != nil && mapped {
		table, err := f.cfg.Remote.OpenTable(ctx, name, info)
		if err != nil {
			f.log.Error("open remote table failed", "collection", string(kind), "table", name, "error", err)
			table = nil
		}
		coll, err := NewRemoteCollection[T](table, kind, f.opts...)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", kind, err)
		}
		f.bindings[kind] = Binding{Kind: kind, Backend: BackendRemote, Table: name}
		f.log.Debug("bound collection", "collection", string(kind), "backend", string(BackendRemote), "table", name)
		return coll, nil
	}

	coll, err := NewLocalCollection(f.cfg.Local, kind, defaults, f.opts...)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", kind, err)
	}
	f.bindings[kind] = Binding{Kind: kind, Backend: BackendLocal, Key: info.Key}
	f.log.Debug("bound collection", "collection", string(kind), "backend", string(BackendLocal), "key", info.Key)
	return coll, nil
}

// checkShape rejects record types whose fields have no column in the kind.
func checkShape[T entity.Entity](info entity.KindInfo) error {
	var zero T
	fields, err := entity.Fields(zero)
	if err != nil {
		return err
	}
	names := info.ColumnNames()
	for name := range fields {
		if !slices.Contains(names, name) {
			return fmt.Errorf("field %q has no column", name)
		}
	}
	return nil
}
