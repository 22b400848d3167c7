package household

import (
	"context"
	"fmt"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// AddEvent appends ev, assigning an id if it has none.
func (c *Controller) AddEvent(ev entity.CalendarEvent) entity.CalendarEvent {
	if ev.ID == "" {
		ev.ID = c.ids.NewID()
	}
	if ev.AssignedTo == nil {
		ev.AssignedTo = []string{}
	}
	ev.Title, ev.Location, ev.Description = nfc(ev.Title), nfc(ev.Location), nfc(ev.Description)
	c.update(func(s *State) { s.Events = appendCopy(s.Events, ev) })
	c.persist("add_event", func(ctx context.Context) { c.cols.Events.Add(ctx, ev) })
	return ev
}

// UpdateEvent merges patch into the event with id.
func (c *Controller) UpdateEvent(id string, patch store.Patch) error {
	patch = nfcPatch(patch)
	var err error
	c.update(func(s *State) {
		var next []entity.CalendarEvent
		var found bool
		next, found, err = patchAll(entity.KindEvents, s.Events, id, patch)
		if err != nil {
			return
		}
		if !found {
			err = fmt.Errorf("update event %s: %w", id, ErrNotFound)
			return
		}
		s.Events = next
	})
	if err != nil {
		return err
	}
	c.persist("update_event", func(ctx context.Context) { c.cols.Events.Update(ctx, id, patch) })
	return nil
}

func (c *Controller) DeleteEvent(id string) {
	c.update(func(s *State) { s.Events = withoutID(s.Events, id) })
	c.persist("delete_event", func(ctx context.Context) { c.cols.Events.Delete(ctx, id) })
}
