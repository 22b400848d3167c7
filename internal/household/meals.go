package household

import (
	"context"
	"slices"

	"github.com/roach88/hearth/internal/entity"
)

// RecipeHintFromStore marks plan entries added from a saved recipe.
const RecipeHintFromStore = "Aus Rezeptlager"

// UpdateMealPlan replaces the whole plan.
func (c *Controller) UpdateMealPlan(plan []entity.MealPlan) {
	plan = slices.Clone(plan)
	c.update(func(s *State) { s.MealPlan = plan })
	c.persist("update_meal_plan", func(ctx context.Context) { c.cols.MealPlan.SetAll(ctx, plan) })
}

// AddMealToPlan sets the dinner for day, replacing any entry already planned
// for that day. The whole plan is persisted.
func (c *Controller) AddMealToPlan(day, mealName string, ingredients []string) entity.MealPlan {
	if ingredients == nil {
		ingredients = []string{}
	}
	entry := entity.MealPlan{
		ID:          c.ids.NewID(),
		Day:         day,
		MealName:    nfc(mealName),
		Ingredients: nfcAll(ingredients),
		RecipeHint:  RecipeHintFromStore,
	}
	var plan []entity.MealPlan
	c.update(func(s *State) {
		plan = make([]entity.MealPlan, 0, len(s.MealPlan)+1)
		for _, m := range s.MealPlan {
			if m.Day != day {
				plan = append(plan, m)
			}
		}
		plan = append(plan, entry)
		s.MealPlan = plan
	})
	plan = slices.Clone(plan)
	c.persist("add_meal_to_plan", func(ctx context.Context) { c.cols.MealPlan.SetAll(ctx, plan) })
	return entry
}

// SuggestMealPlan asks the meal suggester for a plan and, if it proposes
// one, replaces the current plan with it. It reports whether the plan
// changed.
func (c *Controller) SuggestMealPlan(ctx context.Context, preferences string) ([]entity.MealPlan, bool) {
	if c.meals == nil {
		return nil, false
	}
	plan := c.meals.Suggest(ctx, preferences)
	if len(plan) == 0 {
		c.logger.Info("no meal plan suggested")
		return nil, false
	}
	plan = slices.Clone(plan)
	for i := range plan {
		if plan[i].ID == "" {
			plan[i].ID = c.ids.NewID()
		}
		if plan[i].Ingredients == nil {
			plan[i].Ingredients = []string{}
		}
	}
	c.UpdateMealPlan(plan)
	return plan, true
}

// AddMealRequest records a dish wish from the logged-in user.
func (c *Controller) AddMealRequest(dishName string) (entity.MealRequest, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return entity.MealRequest{}, ErrNotLoggedIn
	}
	req := entity.MealRequest{
		ID:          c.ids.NewID(),
		DishName:    nfc(dishName),
		RequestedBy: user.ID,
		CreatedAt:   timestamp(c.clock.Now()),
	}
	c.update(func(s *State) { s.MealRequests = appendCopy(s.MealRequests, req) })
	c.persist("add_meal_request", func(ctx context.Context) { c.cols.MealRequests.Add(ctx, req) })
	return req, nil
}

func (c *Controller) DeleteMealRequest(id string) {
	c.update(func(s *State) { s.MealRequests = withoutID(s.MealRequests, id) })
	c.persist("delete_meal_request", func(ctx context.Context) { c.cols.MealRequests.Delete(ctx, id) })
}

// AddRecipe appends r, assigning an id if it has none.
func (c *Controller) AddRecipe(r entity.Recipe) entity.Recipe {
	if r.ID == "" {
		r.ID = c.ids.NewID()
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	r.Name, r.Description = nfc(r.Name), nfc(r.Description)
	r.Ingredients = nfcAll(r.Ingredients)
	c.update(func(s *State) { s.Recipes = appendCopy(s.Recipes, r) })
	c.persist("add_recipe", func(ctx context.Context) { c.cols.Recipes.Add(ctx, r) })
	return r
}

func (c *Controller) DeleteRecipe(id string) {
	c.update(func(s *State) { s.Recipes = withoutID(s.Recipes, id) })
	c.persist("delete_recipe", func(ctx context.Context) { c.cols.Recipes.Delete(ctx, id) })
}
