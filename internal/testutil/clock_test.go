package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func TestDeterministicClock_StandsStill(t *testing.T) {
	clock := NewDeterministicClock(epoch)
	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch, clock.Now())
}

func TestDeterministicClock_Advance(t *testing.T) {
	clock := NewDeterministicClock(epoch)

	clock.Advance(90 * time.Minute)
	assert.Equal(t, epoch.Add(90*time.Minute), clock.Now())

	clock.Set(epoch)
	assert.Equal(t, epoch, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(epoch)
	const numGoroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, epoch.Add(numGoroutines*time.Second), clock.Now())
}
