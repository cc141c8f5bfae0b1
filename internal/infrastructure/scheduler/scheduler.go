package scheduler

import (
	"sync"
	"time"
)

// Ticker is an in-process task scheduler backed by time.Timer and
// time.Ticker. It satisfies the lifecycle package's Scheduler interface:
// one-shot and repeating submission plus cancellation by id.
type Ticker struct {
	mu    sync.Mutex
	next  int64
	stops map[int64]chan struct{}
}

// New creates a scheduler.
func New() *Ticker {
	return &Ticker{stops: make(map[int64]chan struct{})}
}

// RunLater runs fn once after delay, unless cancelled first.
func (t *Ticker) RunLater(delay time.Duration, fn func()) int64 {
	id, stop := t.register()

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			t.Cancel(id)
			fn()
		case <-stop:
		}
	}()

	return id
}

// RunRepeating runs fn every interval until cancelled.
func (t *Ticker) RunRepeating(interval time.Duration, fn func()) int64 {
	id, stop := t.register()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	return id
}

// Cancel stops the task with the given id. Unknown ids are ignored.
func (t *Ticker) Cancel(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stop, ok := t.stops[id]; ok {
		close(stop)
		delete(t.stops, id)
	}
}

// Stop cancels every outstanding task.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, stop := range t.stops {
		close(stop)
		delete(t.stops, id)
	}
}

func (t *Ticker) register() (int64, chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	stop := make(chan struct{})
	t.stops[t.next] = stop
	return t.next, stop
}
