package household

import (
	"context"
	"fmt"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// AddHouseholdTask appends an open chore assigned to a family member id.
func (c *Controller) AddHouseholdTask(title, assignedTo string) entity.Task {
	task := entity.Task{ID: c.ids.NewID(), Title: nfc(title), AssignedTo: assignedTo, Type: entity.TaskHousehold}
	c.update(func(s *State) { s.HouseholdTasks = appendCopy(s.HouseholdTasks, task) })
	c.persist("add_household_task", func(ctx context.Context) { c.cols.HouseholdTasks.Add(ctx, task) })
	return task
}

// AddPersonalTask appends an open personal to-do.
func (c *Controller) AddPersonalTask(title string) entity.Task {
	task := entity.Task{ID: c.ids.NewID(), Title: nfc(title), Type: entity.TaskPersonal}
	c.update(func(s *State) { s.PersonalTasks = appendCopy(s.PersonalTasks, task) })
	c.persist("add_personal_task", func(ctx context.Context) { c.cols.PersonalTasks.Add(ctx, task) })
	return task
}

// ToggleTask flips the done flag of the task with id in the list for typ.
func (c *Controller) ToggleTask(id string, typ entity.TaskType) (done bool, err error) {
	coll, err := c.taskCollection(typ)
	if err != nil {
		return false, err
	}
	var ok bool
	c.update(func(s *State) {
		list := c.taskList(s, typ)
		*list, ok = mapByID(*list, id, func(t entity.Task) entity.Task {
			t.Done = !t.Done
			done = t.Done
			return t
		})
	})
	if !ok {
		return false, fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}
	c.persist("toggle_task", func(ctx context.Context) { coll.Update(ctx, id, store.Patch{"done": done}) })
	return done, nil
}

func (c *Controller) DeleteTask(id string, typ entity.TaskType) error {
	coll, err := c.taskCollection(typ)
	if err != nil {
		return err
	}
	c.update(func(s *State) {
		list := c.taskList(s, typ)
		*list = withoutID(*list, id)
	})
	c.persist("delete_task", func(ctx context.Context) { coll.Delete(ctx, id) })
	return nil
}

func (c *Controller) taskCollection(typ entity.TaskType) (store.Collection[entity.Task], error) {
	switch typ {
	case entity.TaskHousehold:
		return c.cols.HouseholdTasks, nil
	case entity.TaskPersonal:
		return c.cols.PersonalTasks, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownTaskType, typ)
	}
}

func (c *Controller) taskList(s *State, typ entity.TaskType) *[]entity.Task {
	if typ == entity.TaskPersonal {
		return &s.PersonalTasks
	}
	return &s.HouseholdTasks
}
