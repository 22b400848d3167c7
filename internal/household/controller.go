package household

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

var (
	ErrNotFound        = errors.New("no such record")
	ErrNotLoggedIn     = errors.New("no user is logged in")
	ErrNoCandidate     = errors.New("no user selected")
	ErrEmptyPassword   = errors.New("password is empty")
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
	ErrUnknownTaskType = errors.New("unknown task type")
)

// State is everything the household views render. Slices returned by
// Snapshot are copies.
type State struct {
	Family           []entity.FamilyMember  `json:"family"`
	Events           []entity.CalendarEvent `json:"events"`
	News             []entity.NewsItem      `json:"news"`
	Shopping         []entity.ShoppingItem  `json:"shopping"`
	HouseholdTasks   []entity.Task          `json:"householdTasks"`
	PersonalTasks    []entity.Task          `json:"personalTasks"`
	MealPlan         []entity.MealPlan      `json:"mealPlan"`
	MealRequests     []entity.MealRequest   `json:"mealRequests"`
	Recipes          []entity.Recipe        `json:"recipes"`
	WeatherFavorites []entity.SavedLocation `json:"weatherFavorites"`
	Feedback         []entity.FeedbackItem  `json:"feedback"`
}

func (s State) clone() State {
	return State{
		Family:           slices.Clone(s.Family),
		Events:           slices.Clone(s.Events),
		News:             slices.Clone(s.News),
		Shopping:         slices.Clone(s.Shopping),
		HouseholdTasks:   slices.Clone(s.HouseholdTasks),
		PersonalTasks:    slices.Clone(s.PersonalTasks),
		MealPlan:         slices.Clone(s.MealPlan),
		MealRequests:     slices.Clone(s.MealRequests),
		Recipes:          slices.Clone(s.Recipes),
		WeatherFavorites: slices.Clone(s.WeatherFavorites),
		Feedback:         slices.Clone(s.Feedback),
	}
}

// Controller applies household mutations optimistically and persists them
// in the background.
//
// Thread-safety: all methods are safe for concurrent use. State changes are
// applied in call order; store calls run concurrently and may reach the
// store in any order.
type Controller struct {
	cols    *Collections
	ids     IDGenerator
	clock   Clock
	logger  *slog.Logger
	weather WeatherSource
	meals   MealSuggester
	places  Geocoder

	// persistCtx is handed to every background store call. It is never
	// cancelled by the controller.
	persistCtx context.Context

	mu      sync.Mutex
	state   State
	session session

	// persistMu orders inflight.Add against inflight.Wait.
	persistMu sync.Mutex
	inflight  sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

func WithIDGenerator(g IDGenerator) Option { return func(c *Controller) { c.ids = g } }

func WithClock(clk Clock) Option { return func(c *Controller) { c.clock = clk } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

func WithWeatherSource(w WeatherSource) Option { return func(c *Controller) { c.weather = w } }

func WithMealSuggester(m MealSuggester) Option { return func(c *Controller) { c.meals = m } }

func WithGeocoder(g Geocoder) Option { return func(c *Controller) { c.places = g } }

// WithPersistContext sets the context background store calls run under.
// Defaults to context.Background().
func WithPersistContext(ctx context.Context) Option {
	return func(c *Controller) { c.persistCtx = ctx }
}

// NewController creates a controller with empty state. Call Load to
// hydrate it from the stores.
func NewController(cols *Collections, opts ...Option) *Controller {
	c := &Controller{
		cols:       cols,
		ids:        UUIDv7Generator{},
		clock:      systemClock{},
		logger:     slog.Default(),
		persistCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory state with every collection's current
// contents. Collections are read concurrently.
func (c *Controller) Load(ctx context.Context) {
	var (
		next State
		wg   sync.WaitGroup
	)
	load := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	load(func() { next.Family = c.cols.Family.GetAll(ctx) })
	load(func() { next.Events = c.cols.Events.GetAll(ctx) })
	load(func() { next.News = c.cols.News.GetAll(ctx) })
	load(func() { next.Shopping = c.cols.Shopping.GetAll(ctx) })
	load(func() { next.HouseholdTasks = c.cols.HouseholdTasks.GetAll(ctx) })
	load(func() { next.PersonalTasks = c.cols.PersonalTasks.GetAll(ctx) })
	load(func() { next.MealPlan = c.cols.MealPlan.GetAll(ctx) })
	load(func() { next.MealRequests = c.cols.MealRequests.GetAll(ctx) })
	load(func() { next.Recipes = c.cols.Recipes.GetAll(ctx) })
	load(func() { next.WeatherFavorites = c.cols.WeatherFavorites.GetAll(ctx) })
	load(func() { next.Feedback = c.cols.Feedback.GetAll(ctx) })
	wg.Wait()

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()
	c.logger.Debug("household loaded",
		"family", len(next.Family),
		"events", len(next.Events),
		"shopping", len(next.Shopping),
		"household_tasks", len(next.HouseholdTasks),
		"personal_tasks", len(next.PersonalTasks))
}

// Snapshot returns a copy of the current in-memory state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Wait blocks until every store call started so far has returned.
// Mutations issued while Wait is draining start their store call once it
// returns.
func (c *Controller) Wait() {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	c.inflight.Wait()
}

// update applies fn to the state under the mutex.
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// persist runs a store call in the background and drops its result.
func (c *Controller) persist(op string, call func(ctx context.Context)) {
	c.persistMu.Lock()
	c.inflight.Add(1)
	c.persistMu.Unlock()
	go func() {
		defer c.inflight.Done()
		c.logger.Debug("persisting", "op", op)
		call(c.persistCtx)
	}()
}

// mapByID returns a copy of items with fn applied to every item with id,
// and whether any item matched.
func mapByID[T entity.Entity](items []T, id string, fn func(T) T) ([]T, bool) {
	out := make([]T, len(items))
	found := false
	for i, it := range items {
		if it.EntityID() == id {
			it = fn(it)
			found = true
		}
		out[i] = it
	}
	return out, found
}

// withoutID returns a copy of items without any item with id.
func withoutID[T entity.Entity](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.EntityID() != id {
			out = append(out, it)
		}
	}
	return out
}

// appendCopy appends to a copy so snapshots handed out earlier never alias
// the new state.
func appendCopy[T any](items []T, more ...T) []T {
	out := make([]T, 0, len(items)+len(more))
	out = append(out, items...)
	return append(out, more...)
}

// patchAll applies patch to every item with id. It fails without changing
// anything if the patch names a field kind does not have or does not fit
// the record type.
func patchAll[T entity.Entity](kind entity.Kind, items []T, id string, patch store.Patch) ([]T, bool, error) {
	if err := entity.CheckPatch(entity.MustLookup(kind), patch); err != nil {
		return nil, false, err
	}
	out := make([]T, len(items))
	found := false
	for i, it := range items {
		if it.EntityID() == id {
			patched, err := entity.ApplyPatch(it, patch)
			if err != nil {
				return nil, false, err
			}
			it = patched
			found = true
		}
		out[i] = it
	}
	return out, found, nil
}
