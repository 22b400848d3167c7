package household

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator assigns ids to new records.
// Implemented by UUIDv7Generator (production) and testutil.SequenceGenerator
// (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator returns time-ordered UUIDv7 strings, so ids sort by
// creation time the way the old timestamp ids did.
type UUIDv7Generator struct{}

func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock supplies the current time for createdAt fields and default event
// dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timestamp layout for createdAt fields: UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the calendar date format used by events.
const DateLayout = "2006-01-02"

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
