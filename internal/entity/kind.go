package entity

import (
	"fmt"
	"slices"
)

// Kind names one collection of homogeneous records.
type Kind string

const (
	KindFamily         Kind = "family"
	KindEvents         Kind = "events"
	KindNews           Kind = "news"
	KindShopping       Kind = "shopping"
	KindHouseholdTasks Kind = "household_tasks"
	KindPersonalTasks  Kind = "personal_tasks"
	KindMealPlans      Kind = "meal_plans"
	KindMealRequests   Kind = "meal_requests"
	KindRecipes        Kind = "recipes"
	KindWeatherFavs    Kind = "weather_favs"
	KindFeedback       Kind = "feedback"
)

// ColumnType is the storage type of one field in a relational table.
type ColumnType int

const (
	ColumnText ColumnType = iota + 1
	ColumnInteger
	ColumnReal
	ColumnBool
	// ColumnJSON holds arrays and objects encoded as JSON text.
	ColumnJSON
)

func (t ColumnType) String() string {
	switch t {
	case ColumnText:
		return "text"
	case ColumnInteger:
		return "integer"
	case ColumnReal:
		return "real"
	case ColumnBool:
		return "bool"
	case ColumnJSON:
		return "json"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column is one field of a kind. Name equals the record's JSON field name.
type Column struct {
	Name string
	Type ColumnType
}

// IDColumn is the primary key column shared by every kind.
const IDColumn = "id"

// KindInfo is the static description of a kind.
type KindInfo struct {
	Kind Kind
	// Key addresses the kind's blob in the local cache.
	Key string
	// Columns lists every field, id first.
	Columns []Column
}

// Column looks up a column by name.
func (k KindInfo) Column(name string) (Column, bool) {
	for _, c := range k.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in schema order.
func (k KindInfo) ColumnNames() []string {
	names := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		names[i] = c.Name
	}
	return names
}

func cols(pairs ...any) []Column {
	out := []Column{{Name: IDColumn, Type: ColumnText}}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Column{Name: pairs[i].(string), Type: pairs[i+1].(ColumnType)})
	}
	return out
}

var registry = []KindInfo{
	{Kind: KindFamily, Key: "fh_family", Columns: cols(
		"name", ColumnText, "avatar", ColumnText, "color", ColumnText,
		"role", ColumnText, "password", ColumnText)},
	{Kind: KindEvents, Key: "fh_events", Columns: cols(
		"title", ColumnText, "date", ColumnText, "time", ColumnText,
		"endTime", ColumnText, "location", ColumnText, "description", ColumnText,
		"assignedTo", ColumnJSON)},
	{Kind: KindNews, Key: "fh_news", Columns: cols(
		"title", ColumnText, "description", ColumnText, "image", ColumnText,
		"tag", ColumnText, "createdAt", ColumnText, "authorId", ColumnText)},
	{Kind: KindShopping, Key: "fh_shopping", Columns: cols(
		"name", ColumnText, "checked", ColumnBool, "category", ColumnText,
		"note", ColumnText)},
	{Kind: KindHouseholdTasks, Key: "fh_household", Columns: taskColumns()},
	{Kind: KindPersonalTasks, Key: "fh_personal", Columns: taskColumns()},
	{Kind: KindMealPlans, Key: "fh_mealPlan", Columns: cols(
		"day", ColumnText, "mealName", ColumnText, "breakfast", ColumnText,
		"lunch", ColumnText, "ingredients", ColumnJSON, "recipeHint", ColumnText)},
	{Kind: KindMealRequests, Key: "fh_mealRequests", Columns: cols(
		"dishName", ColumnText, "requestedBy", ColumnText, "createdAt", ColumnText)},
	{Kind: KindRecipes, Key: "fh_recipes", Columns: cols(
		"name", ColumnText, "ingredients", ColumnJSON, "image", ColumnText,
		"description", ColumnText)},
	{Kind: KindWeatherFavs, Key: "fh_weather_favs", Columns: cols(
		"name", ColumnText, "lat", ColumnReal, "lng", ColumnReal)},
	{Kind: KindFeedback, Key: "fh_feedback", Columns: cols(
		"userId", ColumnText, "userName", ColumnText, "text", ColumnText,
		"rating", ColumnInteger, "createdAt", ColumnText, "read", ColumnBool)},
}

func taskColumns() []Column {
	return cols(
		"title", ColumnText, "done", ColumnBool, "assignedTo", ColumnText,
		"type", ColumnText, "priority", ColumnText, "note", ColumnText)
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(registry))
	for i, info := range registry {
		out[i] = info.Kind
	}
	return out
}

// Lookup returns the description of a kind.
func Lookup(kind Kind) (KindInfo, bool) {
	i := slices.IndexFunc(registry, func(info KindInfo) bool { return info.Kind == kind })
	if i < 0 {
		return KindInfo{}, false
	}
	return registry[i], true
}

// MustLookup is Lookup for kinds known at compile time.
func MustLookup(kind Kind) KindInfo {
	info, ok := Lookup(kind)
	if !ok {
		panic(fmt.Sprintf("entity: unknown kind %q", kind))
	}
	return info
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	if _, ok := Lookup(Kind(s)); !ok {
		return "", fmt.Errorf("unknown kind %q", s)
	}
	return Kind(s), nil
}
