package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/hearth/internal/entity"
)

// Table is one relational table holding one kind. sqltable.Table and
// cqltable.Table implement it.
type Table interface {
	Name() string
	SelectAll(ctx context.Context) ([]entity.Row, error)
	Insert(ctx context.Context, row entity.Row) error
	Update(ctx context.Context, id string, patch entity.Row) error
	Delete(ctx context.Context, id string) error
	// DeleteNotIn removes every row whose id is not in keep.
	DeleteNotIn(ctx context.Context, keep []string) error
	// Upsert inserts rows, overwriting rows with the same id.
	Upsert(ctx context.Context, rows []entity.Row) error
}

// RemoteCollection keeps a kind in a Table. Each mutation is one statement
// followed by a full re-read, so callers see the table as it is after the
// statement, including other sessions' writes.
//
// A RemoteCollection without a table does nothing and returns an empty
// collection from every method.
type RemoteCollection[T entity.Entity] struct {
	table   Table
	info    entity.KindInfo
	logger  *slog.Logger
	metrics *Metrics
}

// NewRemoteCollection binds kind to table. table may be nil.
func NewRemoteCollection[T entity.Entity](table Table, kind entity.Kind, opts ...Option) (*RemoteCollection[T], error) {
	info, ok := entity.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("remote collection: unknown kind %q", kind)
	}
	o := buildOptions(opts)
	logger := o.logger.With("collection", string(kind), "backend", string(BackendRemote))
	if table != nil {
		logger = logger.With("table", table.Name())
	}
	return &RemoteCollection[T]{
		table:   table,
		info:    info,
		logger:  logger,
		metrics: o.metrics,
	}, nil
}

// Configured reports whether the collection has a table behind it.
func (c *RemoteCollection[T]) Configured() bool {
	return c.table != nil
}

func (c *RemoteCollection[T]) GetAll(ctx context.Context) []T {
	if c.table == nil {
		return []T{}
	}
	start := time.Now()
	items, err := c.fetch(ctx)
	c.metrics.observe(string(c.info.Kind), BackendRemote, "get_all", start, err != nil)
	return items
}

func (c *RemoteCollection[T]) Add(ctx context.Context, item T) []T {
	return c.exec(ctx, "add", func() error {
		row, err := entity.ToRow(c.info, item)
		if err != nil {
			return err
		}
		return c.table.Insert(ctx, row)
	})
}

func (c *RemoteCollection[T]) Update(ctx context.Context, id string, patch entity.Patch) []T {
	return c.exec(ctx, "update", func() error {
		row, err := entity.PatchRow(c.info, patch)
		if err != nil {
			return err
		}
		return c.table.Update(ctx, id, row)
	})
}

func (c *RemoteCollection[T]) Delete(ctx context.Context, id string) []T {
	return c.exec(ctx, "delete", func() error {
		return c.table.Delete(ctx, id)
	})
}

// SetAll makes the table hold exactly items: rows whose id is not among
// items are deleted, then items are upserted, then the table is re-read.
//
// The two writes are separate calls. A reader in between sees the table
// with stale rows removed but new rows not yet written, and two SetAll
// calls that overlap can interleave their phases.
func (c *RemoteCollection[T]) SetAll(ctx context.Context, items []T) []T {
	return c.exec(ctx, "set_all", func() error {
		rows := make([]entity.Row, 0, len(items))
		ids := make([]string, 0, len(items))
		for _, item := range items {
			row, err := entity.ToRow(c.info, item)
			if err != nil {
				return err
			}
			rows = append(rows, row)
			ids = append(ids, item.EntityID())
		}
		if err := c.table.DeleteNotIn(ctx, ids); err != nil {
			return fmt.Errorf("delete stale rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := c.table.Upsert(ctx, rows); err != nil {
			return fmt.Errorf("upsert rows: %w", err)
		}
		return nil
	})
}

// exec runs one write, logs its failure and returns the re-read table.
func (c *RemoteCollection[T]) exec(ctx context.Context, op string, write func() error) []T {
	if c.table == nil {
		return []T{}
	}
	start := time.Now()
	failed := false
	if err := write(); err != nil {
		failed = true
		c.logger.Error("remote write failed", "op", op, "error", fmt.Errorf("%w: %s %s: %w", ErrRemote, op, c.table.Name(), err))
	}
	items, err := c.fetch(ctx)
	c.metrics.observe(string(c.info.Kind), BackendRemote, op, start, failed || err != nil)
	return items
}

// fetch reads the whole table. Rows that cannot be decoded are skipped.
func (c *RemoteCollection[T]) fetch(ctx context.Context) ([]T, error) {
	rows, err := c.table.SelectAll(ctx)
	if err != nil {
		err = fmt.Errorf("%w: select %s: %w", ErrRemote, c.table.Name(), err)
		c.logger.Error("remote read failed", "error", err)
		return []T{}, err
	}
	items := make([]T, 0, len(rows))
	var decodeErr error
	for _, row := range rows {
		item, err := entity.FromRow[T](c.info, row)
		if err != nil {
			c.logger.Warn("skipping undecodable row", "id", row.ID(), "error", err)
			decodeErr = err
			continue
		}
		items = append(items, item)
	}
	return items, decodeErr
}
