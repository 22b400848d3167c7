package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/hearth/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTable is an in-memory Table that keeps rows in insertion order.
type memTable struct {
	name string

	mu   sync.Mutex
	rows []entity.Row
	fail map[string]error
}

func newMemTable(name string) *memTable {
	return &memTable{name: name, fail: map[string]error{}}
}

func (m *memTable) failOn(op string, err error) {
	m.mu.Lock()
	m.fail[op] = err
	m.mu.Unlock()
}

func (m *memTable) Name() string { return m.name }

func (m *memTable) SelectAll(context.Context) ([]entity.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["select"]; err != nil {
		return nil, err
	}
	out := make([]entity.Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = copyRow(r)
	}
	return out, nil
}

func (m *memTable) Insert(_ context.Context, row entity.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["insert"]; err != nil {
		return err
	}
	if m.indexOf(row.ID()) >= 0 {
		return fmt.Errorf("duplicate id %q", row.ID())
	}
	m.rows = append(m.rows, copyRow(row))
	return nil
}

func (m *memTable) Update(_ context.Context, id string, patch entity.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["update"]; err != nil {
		return err
	}
	if i := m.indexOf(id); i >= 0 {
		for k, v := range patch {
			m.rows[i][k] = v
		}
	}
	return nil
}

func (m *memTable) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["delete"]; err != nil {
		return err
	}
	m.rows = slices.DeleteFunc(m.rows, func(r entity.Row) bool { return r.ID() == id })
	return nil
}

func (m *memTable) DeleteNotIn(_ context.Context, keep []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["delete_not_in"]; err != nil {
		return err
	}
	m.rows = slices.DeleteFunc(m.rows, func(r entity.Row) bool { return !slices.Contains(keep, r.ID()) })
	return nil
}

func (m *memTable) Upsert(_ context.Context, rows []entity.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["upsert"]; err != nil {
		return err
	}
	for _, r := range rows {
		if i := m.indexOf(r.ID()); i >= 0 {
			m.rows[i] = copyRow(r)
			continue
		}
		m.rows = append(m.rows, copyRow(r))
	}
	return nil
}

func (m *memTable) indexOf(id string) int {
	return slices.IndexFunc(m.rows, func(r entity.Row) bool { return r.ID() == id })
}

func copyRow(r entity.Row) entity.Row {
	out := make(entity.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type callerKey struct{}

// asCaller tags ctx so a gatedTable can tell concurrent callers apart.
func asCaller(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, callerKey{}, name)
}

// gatedTable wraps a Table and parks chosen calls until released. A gate is
// keyed by caller and operation, e.g. "a/upsert".
type gatedTable struct {
	Table

	mu      sync.Mutex
	gates   map[string]chan struct{}
	arrived chan string
}

func newGatedTable(inner Table) *gatedTable {
	return &gatedTable{Table: inner, gates: map[string]chan struct{}{}, arrived: make(chan string, 16)}
}

// hold parks the next call matching key until release(key).
func (g *gatedTable) hold(key string) {
	g.mu.Lock()
	g.gates[key] = make(chan struct{})
	g.mu.Unlock()
}

func (g *gatedTable) release(key string) {
	g.mu.Lock()
	ch := g.gates[key]
	delete(g.gates, key)
	g.mu.Unlock()
	close(ch)
}

func (g *gatedTable) wait(ctx context.Context, op string) {
	caller, _ := ctx.Value(callerKey{}).(string)
	key := caller + "/" + op
	g.mu.Lock()
	ch, ok := g.gates[key]
	g.mu.Unlock()
	if !ok {
		return
	}
	g.arrived <- key
	<-ch
}

func (g *gatedTable) SelectAll(ctx context.Context) ([]entity.Row, error) {
	g.wait(ctx, "select")
	return g.Table.SelectAll(ctx)
}

func (g *gatedTable) DeleteNotIn(ctx context.Context, keep []string) error {
	g.wait(ctx, "delete_not_in")
	return g.Table.DeleteNotIn(ctx, keep)
}

func (g *gatedTable) Upsert(ctx context.Context, rows []entity.Row) error {
	g.wait(ctx, "upsert")
	return g.Table.Upsert(ctx, rows)
}

// recordingNotifier counts storage notices.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []entity.Kind
	errs  []error
}

func (r *recordingNotifier) StorageUnavailable(kind entity.Kind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.errs = append(r.errs, err)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.kinds)
}

var errBoom = errors.New("boom")

func item(id, name string, checked bool) entity.ShoppingItem {
	return entity.ShoppingItem{ID: id, Name: name, Checked: checked}
}

func ids[T entity.Entity](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.EntityID()
	}
	return out
}
