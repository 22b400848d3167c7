package household

import (
	"context"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// AddShoppingItem appends an unchecked item called name.
func (c *Controller) AddShoppingItem(name string) entity.ShoppingItem {
	item := entity.ShoppingItem{ID: c.ids.NewID(), Name: nfc(name)}
	c.update(func(s *State) { s.Shopping = appendCopy(s.Shopping, item) })
	c.persist("add_shopping_item", func(ctx context.Context) { c.cols.Shopping.Add(ctx, item) })
	return item
}

// AddIngredientsToShopping appends one unchecked item per ingredient. Each
// item is persisted with its own Add.
func (c *Controller) AddIngredientsToShopping(ingredients []string) []entity.ShoppingItem {
	items := make([]entity.ShoppingItem, len(ingredients))
	for i, name := range ingredients {
		items[i] = entity.ShoppingItem{ID: c.ids.NewID(), Name: nfc(name)}
	}
	c.update(func(s *State) { s.Shopping = appendCopy(s.Shopping, items...) })
	for _, item := range items {
		c.persist("add_shopping_item", func(ctx context.Context) { c.cols.Shopping.Add(ctx, item) })
	}
	return items
}

// ToggleShoppingItem flips the checked flag of the item with id and returns
// the new value. It reports false if no item has that id.
func (c *Controller) ToggleShoppingItem(id string) (checked, ok bool) {
	c.update(func(s *State) {
		s.Shopping, ok = mapByID(s.Shopping, id, func(it entity.ShoppingItem) entity.ShoppingItem {
			it.Checked = !it.Checked
			checked = it.Checked
			return it
		})
	})
	if !ok {
		return false, false
	}
	c.persist("toggle_shopping_item", func(ctx context.Context) {
		c.cols.Shopping.Update(ctx, id, store.Patch{"checked": checked})
	})
	return checked, true
}

func (c *Controller) DeleteShoppingItem(id string) {
	c.update(func(s *State) { s.Shopping = withoutID(s.Shopping, id) })
	c.persist("delete_shopping_item", func(ctx context.Context) { c.cols.Shopping.Delete(ctx, id) })
}
