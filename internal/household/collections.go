package household

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// Collections is one store per kind. Tests build it directly to substitute
// individual stores; production code uses BindCollections.
type Collections struct {
	Family           store.Collection[entity.FamilyMember]
	Events           store.Collection[entity.CalendarEvent]
	News             store.Collection[entity.NewsItem]
	Shopping         store.Collection[entity.ShoppingItem]
	HouseholdTasks   store.Collection[entity.Task]
	PersonalTasks    store.Collection[entity.Task]
	MealPlan         store.Collection[entity.MealPlan]
	MealRequests     store.Collection[entity.MealRequest]
	Recipes          store.Collection[entity.Recipe]
	WeatherFavorites store.Collection[entity.SavedLocation]
	Feedback         store.Collection[entity.FeedbackItem]
}

// BindCollections binds every kind through f. Local collections start from
// the defaults for today.
func BindCollections(ctx context.Context, f *store.Factory, today time.Time) (*Collections, error) {
	d := NewDefaults(today)
	var c Collections
	err := errors.Join(
		bindInto(ctx, f, entity.KindFamily, d.Family, &c.Family),
		bindInto(ctx, f, entity.KindEvents, d.Events, &c.Events),
		bindInto(ctx, f, entity.KindNews, nil, &c.News),
		bindInto(ctx, f, entity.KindShopping, d.Shopping, &c.Shopping),
		bindInto(ctx, f, entity.KindHouseholdTasks, d.HouseholdTasks, &c.HouseholdTasks),
		bindInto(ctx, f, entity.KindPersonalTasks, nil, &c.PersonalTasks),
		bindInto(ctx, f, entity.KindMealPlans, nil, &c.MealPlan),
		bindInto(ctx, f, entity.KindMealRequests, nil, &c.MealRequests),
		bindInto(ctx, f, entity.KindRecipes, nil, &c.Recipes),
		bindInto(ctx, f, entity.KindWeatherFavs, nil, &c.WeatherFavorites),
		bindInto(ctx, f, entity.KindFeedback, nil, &c.Feedback),
	)
	if err != nil {
		return nil, fmt.Errorf("bind collections: %w", err)
	}
	return &c, nil
}

func bindInto[T entity.Entity](ctx context.Context, f *store.Factory, kind entity.Kind, defaults []T, dst *store.Collection[T]) error {
	coll, err := store.Bind(ctx, f, kind, defaults)
	if err != nil {
		return err
	}
	*dst = coll
	return nil
}

// Defaults is what a fresh household sees before anything was saved.
type Defaults struct {
	Family         []entity.FamilyMember
	Events         []entity.CalendarEvent
	Shopping       []entity.ShoppingItem
	HouseholdTasks []entity.Task
}

// NewDefaults returns the starter household. The sample event is dated today.
func NewDefaults(today time.Time) Defaults {
	return Defaults{
		Family: []entity.FamilyMember{
			{ID: "1", Name: "Mama", Avatar: "https://picsum.photos/100/100?random=1", Color: "bg-pink-100 text-pink-700", Role: entity.RoleParent},
			{ID: "2", Name: "Papa", Avatar: "https://picsum.photos/100/100?random=2", Color: "bg-blue-100 text-blue-700", Role: entity.RoleParent},
			{ID: "3", Name: "Leo", Avatar: "https://picsum.photos/100/100?random=3", Color: "bg-green-100 text-green-700", Role: entity.RoleChild},
			{ID: "4", Name: "Mia", Avatar: "https://picsum.photos/100/100?random=4", Color: "bg-yellow-100 text-yellow-700", Role: entity.RoleChild},
		},
		Events: []entity.CalendarEvent{{
			ID:          "1",
			Title:       "Fußballtraining Leo",
			Date:        today.Format(DateLayout),
			Time:        "17:00",
			EndTime:     "18:30",
			AssignedTo:  []string{"3"},
			Location:    "Sportplatz",
			Description: "Mitnehmen: Wasserflasche",
		}},
		Shopping: []entity.ShoppingItem{
			{ID: "1", Name: "Milch", Checked: false},
			{ID: "2", Name: "Brot", Checked: true},
		},
		HouseholdTasks: []entity.Task{
			{ID: "101", Title: "Müll rausbringen", Done: false, AssignedTo: "3", Type: entity.TaskHousehold},
		},
	}
}
