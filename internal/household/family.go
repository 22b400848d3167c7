package household

import (
	"context"
	"fmt"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// UpdateFamilyMember merges patch into the member with id. If that member
// is logged in, the session's copy is updated too.
func (c *Controller) UpdateFamilyMember(id string, patch store.Patch) error {
	patch = nfcPatch(patch)
	var err error
	c.update(func(s *State) {
		var next []entity.FamilyMember
		var found bool
		next, found, err = patchAll(entity.KindFamily, s.Family, id, patch)
		if err != nil {
			return
		}
		if !found {
			err = fmt.Errorf("update family member %s: %w", id, ErrNotFound)
			return
		}
		s.Family = next
	})
	if err != nil {
		return err
	}
	c.refreshSessionUser(id, patch)
	c.persist("update_family_member", func(ctx context.Context) { c.cols.Family.Update(ctx, id, patch) })
	return nil
}

// ResetMemberPassword clears a member's password so they choose a new one
// at their next login.
func (c *Controller) ResetMemberPassword(id string) error {
	var found bool
	c.update(func(s *State) {
		s.Family, found = mapByID(s.Family, id, func(m entity.FamilyMember) entity.FamilyMember {
			m.Password = ""
			return m
		})
	})
	if !found {
		return fmt.Errorf("reset password %s: %w", id, ErrNotFound)
	}
	c.persist("reset_member_password", func(ctx context.Context) {
		c.cols.Family.Update(ctx, id, store.Patch{"password": nil})
	})
	return nil
}
