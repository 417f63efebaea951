package scheduler

import (
	"testing"
	"time"
)

func TestScheduleFiresAfterDelay(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	keyed := NewKeyed(clock)

	fired := 0
	keyed.Schedule("g1", time.Second, func() { fired++ })

	clock.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("callback fired early")
	}
	if !keyed.Pending("g1") {
		t.Fatalf("callback should still be pending")
	}

	clock.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected callback to fire once, got %d", fired)
	}
	if keyed.Pending("g1") {
		t.Fatalf("fired callback should no longer be pending")
	}
}

func TestScheduleReplacesPendingCallback(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	keyed := NewKeyed(clock)

	var order []string
	keyed.Schedule("g1", time.Second, func() { order = append(order, "first") })

	clock.Advance(500 * time.Millisecond)
	keyed.Schedule("g1", time.Second, func() { order = append(order, "second") })

	clock.Advance(600 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("replaced callback fired: %v", order)
	}

	clock.Advance(400 * time.Millisecond)
	if len(order) != 1 || order[0] != "second" {
		t.Fatalf("expected only the replacement to fire, got %v", order)
	}
}

func TestCancelDropsPendingCallback(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	keyed := NewKeyed(clock)

	fired := false
	keyed.Schedule("g1", time.Second, func() { fired = true })

	if !keyed.Cancel("g1") {
		t.Fatalf("expected cancel to report a pending callback")
	}
	if keyed.Cancel("g1") {
		t.Fatalf("second cancel should be a no-op")
	}

	clock.Advance(2 * time.Second)
	if fired {
		t.Fatalf("cancelled callback fired")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	keyed := NewKeyed(clock)

	var fired []string
	keyed.Schedule("g1", time.Second, func() { fired = append(fired, "g1") })
	keyed.Schedule("g2", 2*time.Second, func() { fired = append(fired, "g2") })

	clock.Advance(time.Second)
	if len(fired) != 1 || fired[0] != "g1" {
		t.Fatalf("unexpected fire order %v", fired)
	}

	clock.Advance(time.Second)
	if len(fired) != 2 || fired[1] != "g2" {
		t.Fatalf("unexpected fire order %v", fired)
	}
}

func TestManualClockFiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	var order []int
	clock.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	clock.AfterFunc(time.Second, func() { order = append(order, 1) })

	clock.Advance(3 * time.Second)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected deadline order, got %v", order)
	}
}
