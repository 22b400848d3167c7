package household

import "github.com/roach88/hearth/internal/entity"

// OpenTaskCount is the logged-in member's open household chores plus all
// open personal tasks.
func (c *Controller) OpenTaskCount() int {
	user, loggedIn := c.CurrentUser()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	if loggedIn {
		for _, t := range c.state.HouseholdTasks {
			if t.AssignedTo == user.ID && !t.Done {
				n++
			}
		}
	}
	for _, t := range c.state.PersonalTasks {
		if !t.Done {
			n++
		}
	}
	return n
}

func (c *Controller) UncheckedShoppingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.state.Shopping {
		if !it.Checked {
			n++
		}
	}
	return n
}

// ResolveMember follows a soft reference to a family member.
func (c *Controller) ResolveMember(id string) (entity.FamilyMember, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.state.Family {
		if m.ID == id {
			return m, true
		}
	}
	return entity.FamilyMember{}, false
}

// TodayMeal is the first entry of the meal plan, shown on the dashboard.
func (c *Controller) TodayMeal() (entity.MealPlan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.state.MealPlan) == 0 {
		return entity.MealPlan{}, false
	}
	return c.state.MealPlan[0], true
}
