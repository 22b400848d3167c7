package household

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/kv"
	"github.com/roach88/hearth/internal/store"
	"github.com/roach88/hearth/internal/testutil"
)

var testToday = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCollections binds every kind to a local collection over a fresh
// in-memory store.
func newTestCollections(t *testing.T) (*Collections, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	f, err := store.NewFactory(store.FactoryConfig{Local: mem}, store.WithLogger(discardLogger()))
	require.NoError(t, err)
	cols, err := BindCollections(context.Background(), f, testToday)
	require.NoError(t, err)
	return cols, mem
}

// newTestController returns a loaded controller with deterministic ids and
// time.
func newTestController(t *testing.T, cols *Collections, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithIDGenerator(testutil.NewSequenceGenerator("id")),
		WithClock(testutil.NewDeterministicClock(testToday)),
		WithLogger(discardLogger()),
	}
	c := NewController(cols, append(base, opts...)...)
	c.Load(context.Background())
	t.Cleanup(c.Wait)
	return c
}

// loginAs selects and logs in a member, setting password if they have none.
func loginAs(t *testing.T, c *Controller, id, password string) {
	t.Helper()
	_, err := c.SelectUser(id)
	require.NoError(t, err)
	_, err = c.SubmitPassword(password)
	require.NoError(t, err)
}

// blockingCollection parks every Add until released.
type blockingCollection[T entity.Entity] struct {
	store.Collection[T]
	started chan struct{}
	release chan struct{}
}

func newBlockingCollection[T entity.Entity](inner store.Collection[T]) *blockingCollection[T] {
	return &blockingCollection[T]{
		Collection: inner,
		started:    make(chan struct{}, 16),
		release:    make(chan struct{}),
	}
}

func (b *blockingCollection[T]) Add(ctx context.Context, item T) []T {
	b.started <- struct{}{}
	<-b.release
	return b.Collection.Add(ctx, item)
}

type fakeSuggester struct {
	plan  []entity.MealPlan
	prefs []string
}

func (f *fakeSuggester) Suggest(_ context.Context, preferences string) []entity.MealPlan {
	f.prefs = append(f.prefs, preferences)
	return f.plan
}

type fakeWeather struct{ snap *WeatherSnapshot }

func (f fakeWeather) Fetch(context.Context, float64, float64) *WeatherSnapshot { return f.snap }

type fakeGeocoder map[string]*Place

func (f fakeGeocoder) Lookup(_ context.Context, query string) *Place { return f[query] }

func shoppingNames(items []entity.ShoppingItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
