package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunLaterFiresOnce(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan struct{})
	s.RunLater(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestRunLaterCancelled(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Bool
	id := s.RunLater(20*time.Millisecond, func() { fired.Store(true) })
	s.Cancel(id)

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRunRepeatingUntilCancelled(t *testing.T) {
	s := New()
	defer s.Stop()

	var count atomic.Int64
	id := s.RunRepeating(5*time.Millisecond, func() { count.Add(1) })

	assert.Eventually(t, func() bool { return count.Load() >= 3 },
		time.Second, time.Millisecond)

	s.Cancel(id)
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), settled+1, "at most one in-flight fire after cancel")
}

func TestCancelUnknownIDIsNoop(t *testing.T) {
	s := New()
	defer s.Stop()
	s.Cancel(999)
}

func TestStopCancelsEverything(t *testing.T) {
	s := New()

	var count atomic.Int64
	s.RunRepeating(5*time.Millisecond, func() { count.Add(1) })
	s.RunRepeating(5*time.Millisecond, func() { count.Add(1) })

	s.Stop()
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), settled+2)
}

func TestIDsAreUnique(t *testing.T) {
	s := New()
	defer s.Stop()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		id := s.RunLater(time.Hour, func() {})
		assert.False(t, seen[id])
		seen[id] = true
	}
}
