package core

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	c := NewClock()
	c.now = func() time.Time { return current }

	c.Update()
	if c.Elapsed() != 0 {
		t.Errorf("update on a stopped clock changed elapsed: %f", c.Elapsed())
	}

	c.Start()

	current = base.Add(1500 * time.Millisecond)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("elapsed = %f, want 1.5", c.Elapsed())
	}

	c.Start()
	if c.Elapsed() != 0 {
		t.Errorf("Start must reset elapsed, got %f", c.Elapsed())
	}
}
