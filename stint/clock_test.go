package stint

import (
	"testing"
	"time"
)

// fakeClock replaces the package clock with one the test advances by hand.
type fakeClock struct {
	current time.Time
}

func useFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	c := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	prev := now
	now = func() time.Time { return c.current }
	t.Cleanup(func() { now = prev })
	return c
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	fn()
}
