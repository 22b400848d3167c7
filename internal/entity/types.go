package entity

// Entity is any record that can live in a collection.
// The id is assigned by the caller and must be unique within its collection;
// nothing in hearth checks this.
type Entity interface {
	EntityID() string
}

// Role of a family member.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
	RoleAdmin  Role = "admin"
)

// FamilyMember is a person in the household. Password is compared by plain
// equality at login.
type FamilyMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Color    string `json:"color"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

func (m FamilyMember) EntityID() string { return m.ID }

// CalendarEvent is a dated entry on the family calendar.
// Date is YYYY-MM-DD, Time and EndTime are HH:MM.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	EndTime     string   `json:"endTime,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	AssignedTo  []string `json:"assignedTo"`
}

func (e CalendarEvent) EntityID() string { return e.ID }

// NewsItem is a bulletin board post.
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Tag         string `json:"tag,omitempty"`
	CreatedAt   string `json:"createdAt"`
	AuthorID    string `json:"authorId"`
}

func (n NewsItem) EntityID() string { return n.ID }

type ShoppingItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Checked  bool   `json:"checked"`
	Category string `json:"category,omitempty"`
	Note     string `json:"note,omitempty"`
}

func (s ShoppingItem) EntityID() string { return s.ID }

// TaskType separates shared household chores from personal to-dos.
type TaskType string

const (
	TaskHousehold TaskType = "household"
	TaskPersonal  TaskType = "personal"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Task is a to-do item. AssignedTo holds a family member id for household
// tasks and is empty for personal ones.
type Task struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Done       bool         `json:"done"`
	AssignedTo string       `json:"assignedTo,omitempty"`
	Type       TaskType     `json:"type"`
	Priority   TaskPriority `json:"priority,omitempty"`
	Note       string       `json:"note,omitempty"`
}

func (t Task) EntityID() string { return t.ID }

type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (r Recipe) EntityID() string { return r.ID }

// MealPlan is one day of the meal plan. MealName is the dinner dish.
type MealPlan struct {
	ID          string   `json:"id"`
	Day         string   `json:"day"`
	MealName    string   `json:"mealName"`
	Breakfast   string   `json:"breakfast,omitempty"`
	Lunch       string   `json:"lunch,omitempty"`
	Ingredients []string `json:"ingredients"`
	RecipeHint  string   `json:"recipeHint"`
}

func (p MealPlan) EntityID() string { return p.ID }

type MealRequest struct {
	ID          string `json:"id"`
	DishName    string `json:"dishName"`
	RequestedBy string `json:"requestedBy"`
	CreatedAt   string `json:"createdAt"`
}

func (r MealRequest) EntityID() string { return r.ID }

// SavedLocation is a favorite weather location.
type SavedLocation struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (l SavedLocation) EntityID() string { return l.ID }

type FeedbackItem struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"createdAt"`
	Read      bool   `json:"read,omitempty"`
}

func (f FeedbackItem) EntityID() string { return f.ID }
