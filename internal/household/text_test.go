package household

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/store"
)

const (
	kaeseDecomposed  = "Ka\u0308se"
	kaesePrecomposed = "K\u00e4se"
)

func TestUserText_IsStoredPrecomposed(t *testing.T) {
	ctx := context.Background()
	cols, _ := newTestCollections(t)
	c := newTestController(t, cols)

	item := c.AddShoppingItem(kaeseDecomposed)
	task := c.AddPersonalTask("Mu\u0308ll")
	meal := c.AddMealToPlan("Montag", "Ka\u0308sespa\u0308tzle", []string{kaeseDecomposed})
	c.Wait()

	assert.Equal(t, kaesePrecomposed, item.Name)
	assert.Equal(t, "M\u00fcll", task.Title)
	assert.Equal(t, "K\u00e4sesp\u00e4tzle", meal.MealName)
	assert.Equal(t, []string{kaesePrecomposed}, meal.Ingredients)

	// Memory and the store agree byte for byte.
	snap := c.Snapshot()
	assert.Equal(t, snap.Shopping, cols.Shopping.GetAll(ctx))
	assert.Equal(t, snap.PersonalTasks, cols.PersonalTasks.GetAll(ctx))
	assert.Equal(t, snap.MealPlan, cols.MealPlan.GetAll(ctx))
}

func TestUpdateEvent_NormalizesPatchText(t *testing.T) {
	ctx := context.Background()
	cols, _ := newTestCollections(t)
	c := newTestController(t, cols)

	require.NoError(t, c.UpdateEvent("1", store.Patch{"location": "Turnhalle Nord", "title": "Fußball bei Ka\u0308the"}))
	c.Wait()

	assert.Equal(t, "Fußball bei K\u00e4the", c.Snapshot().Events[0].Title)
	assert.Equal(t, c.Snapshot().Events, cols.Events.GetAll(ctx))
}

func TestSubmitPassword_DecomposedInputMatches(t *testing.T) {
	cols, _ := newTestCollections(t)
	c := newTestController(t, cols)
	loginAs(t, c, "2", "k\u00e4se")
	c.Logout()

	_, err := c.SelectUser("2")
	require.NoError(t, err)
	user, err := c.SubmitPassword("ka\u0308se")
	require.NoError(t, err)
	assert.Equal(t, "Papa", user.Name)
}

func TestUpdate_UnknownFieldIsRejected(t *testing.T) {
	ctx := context.Background()
	cols, _ := newTestCollections(t)
	c := newTestController(t, cols)
	before := c.Snapshot()

	assert.Error(t, c.UpdateFamilyMember("1", store.Patch{"colour": "white"}))
	assert.Error(t, c.UpdateEvent("1", store.Patch{"room": "B12"}))
	c.Wait()

	after := c.Snapshot()
	assert.Equal(t, before.Family, after.Family)
	assert.Equal(t, before.Events, after.Events)
	assert.Equal(t, before.Family, cols.Family.GetAll(ctx))
	assert.Equal(t, before.Events, cols.Events.GetAll(ctx))
}
