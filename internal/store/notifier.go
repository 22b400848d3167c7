package store

import (
	"sync"

	"github.com/roach88/hearth/internal/entity"
)

// Notifier is told when a local write could not be persisted.
type Notifier interface {
	StorageUnavailable(kind entity.Kind, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind entity.Kind, err error)

func (f NotifierFunc) StorageUnavailable(kind entity.Kind, err error) { f(kind, err) }

// OnceNotifier forwards only the first report and drops the rest, so the
// user sees a single generic warning per session however many writes fail.
type OnceNotifier struct {
	once sync.Once
	next Notifier
}

// NewOnceNotifier wraps next. A nil next swallows every report.
func NewOnceNotifier(next Notifier) *OnceNotifier {
	return &OnceNotifier{next: next}
}

func (n *OnceNotifier) StorageUnavailable(kind entity.Kind, err error) {
	n.once.Do(func() {
		if n.next != nil {
			n.next.StorageUnavailable(kind, err)
		}
	})
}
