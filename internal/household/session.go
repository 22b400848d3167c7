package household

import (
	"fmt"
	"strings"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// LoginStep is where the login flow currently stands.
type LoginStep string

const (
	LoginSelect        LoginStep = "select"
	LoginEnterPassword LoginStep = "enter-pass"
	LoginSetPassword   LoginStep = "set-pass"
)

type session struct {
	step      LoginStep
	candidate *entity.FamilyMember
	user      *entity.FamilyMember
}

// SelectUser starts logging in as the member with id. Members without a
// password are asked to set one.
func (c *Controller) SelectUser(id string) (LoginStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.state.Family {
		if m.ID != id {
			continue
		}
		c.session.candidate = &m
		if m.Password != "" {
			c.session.step = LoginEnterPassword
		} else {
			c.session.step = LoginSetPassword
		}
		return c.session.step, nil
	}
	return c.loginStepLocked(), fmt.Errorf("select user %s: %w", id, ErrNotFound)
}

// SubmitPassword completes the login started by SelectUser. In the
// set-password step the password is saved to the member first.
func (c *Controller) SubmitPassword(password string) (entity.FamilyMember, error) {
	password = nfc(password)
	if strings.TrimSpace(password) == "" {
		return entity.FamilyMember{}, ErrEmptyPassword
	}

	c.mu.Lock()
	candidate, step := c.session.candidate, c.session.step
	c.mu.Unlock()
	if candidate == nil {
		return entity.FamilyMember{}, ErrNoCandidate
	}

	user := *candidate
	switch step {
	case LoginSetPassword:
		if err := c.UpdateFamilyMember(user.ID, store.Patch{"password": password}); err != nil {
			return entity.FamilyMember{}, fmt.Errorf("set password: %w", err)
		}
		user.Password = password
	case LoginEnterPassword:
		if password != user.Password {
			return entity.FamilyMember{}, ErrWrongPassword
		}
	default:
		return entity.FamilyMember{}, ErrNoCandidate
	}

	c.mu.Lock()
	c.session = session{step: LoginSelect, user: &user}
	c.mu.Unlock()
	c.logger.Info("user logged in", "member", user.ID)
	return user, nil
}

// CancelLogin returns to member selection.
func (c *Controller) CancelLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.candidate = nil
	c.session.step = LoginSelect
}

// Logout ends the session.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session{step: LoginSelect}
}

// CurrentUser returns the logged-in member.
func (c *Controller) CurrentUser() (entity.FamilyMember, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.user == nil {
		return entity.FamilyMember{}, false
	}
	return *c.session.user, true
}

func (c *Controller) LoginStep() LoginStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginStepLocked()
}

func (c *Controller) loginStepLocked() LoginStep {
	if c.session.step == "" {
		return LoginSelect
	}
	return c.session.step
}

// refreshSessionUser applies patch to the logged-in member if it is id.
func (c *Controller) refreshSessionUser(id string, patch store.Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.user == nil || c.session.user.ID != id {
		return
	}
	patched, err := entity.ApplyPatch(*c.session.user, patch)
	if err != nil {
		c.logger.Warn("session user not refreshed", "member", id, "error", err)
		return
	}
	c.session.user = &patched
}
