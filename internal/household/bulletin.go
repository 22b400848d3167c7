package household

import (
	"context"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/store"
)

// AddNews posts n to the bulletin board. Missing id, createdAt and author
// are filled in; the author defaults to the logged-in member.
func (c *Controller) AddNews(n entity.NewsItem) entity.NewsItem {
	if n.ID == "" {
		n.ID = c.ids.NewID()
	}
	if n.CreatedAt == "" {
		n.CreatedAt = timestamp(c.clock.Now())
	}
	if n.AuthorID == "" {
		if user, ok := c.CurrentUser(); ok {
			n.AuthorID = user.ID
		}
	}
	n.Title, n.Description = nfc(n.Title), nfc(n.Description)
	c.update(func(s *State) { s.News = appendCopy(s.News, n) })
	c.persist("add_news", func(ctx context.Context) { c.cols.News.Add(ctx, n) })
	return n
}

func (c *Controller) DeleteNews(id string) {
	c.update(func(s *State) { s.News = withoutID(s.News, id) })
	c.persist("delete_news", func(ctx context.Context) { c.cols.News.Delete(ctx, id) })
}

// AddFeedback records feedback from the logged-in member. rating is 0 to 5,
// 0 meaning no rating given.
func (c *Controller) AddFeedback(text string, rating int) (entity.FeedbackItem, error) {
	if rating < 0 || rating > 5 {
		return entity.FeedbackItem{}, ErrInvalidRating
	}
	user, ok := c.CurrentUser()
	if !ok {
		return entity.FeedbackItem{}, ErrNotLoggedIn
	}
	fb := entity.FeedbackItem{
		ID:        c.ids.NewID(),
		UserID:    user.ID,
		UserName:  user.Name,
		Text:      nfc(text),
		Rating:    rating,
		CreatedAt: timestamp(c.clock.Now()),
	}
	c.update(func(s *State) { s.Feedback = appendCopy(s.Feedback, fb) })
	c.persist("add_feedback", func(ctx context.Context) { c.cols.Feedback.Add(ctx, fb) })
	return fb, nil
}

// MarkFeedbackRead flags feedback as seen by an admin.
func (c *Controller) MarkFeedbackRead(id string) bool {
	var found bool
	c.update(func(s *State) {
		s.Feedback, found = mapByID(s.Feedback, id, func(f entity.FeedbackItem) entity.FeedbackItem {
			f.Read = true
			return f
		})
	})
	if found {
		c.persist("mark_feedback_read", func(ctx context.Context) {
			c.cols.Feedback.Update(ctx, id, store.Patch{"read": true})
		})
	}
	return found
}
