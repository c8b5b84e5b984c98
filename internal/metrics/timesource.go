package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// countingSource relays ticks from an inner source, counting each one.
type countingSource struct {
	inner prayer.TimeSource
	c     chan time.Time
	ticks prometheus.Counter

	stopOnce sync.Once
	done     chan struct{}
}

// CountTicks wraps ts so every delivered tick increments counter.
// Ticks the receiver is too slow for are dropped.
func CountTicks(ts prayer.TimeSource, counter prometheus.Counter) prayer.TimeSource {
	s := &countingSource{
		inner: ts,
		c:     make(chan time.Time, 1),
		ticks: counter,
		done:  make(chan struct{}),
	}
	go s.relay()
	return s
}

func (s *countingSource) relay() {
	for {
		select {
		case <-s.done:
			return
		case t := <-s.inner.C():
			select {
			case s.c <- t:
				s.ticks.Inc()
			default:
			}
		}
	}
}

func (s *countingSource) C() <-chan time.Time { return s.c }
func (s *countingSource) Now() time.Time      { return s.inner.Now() }

func (s *countingSource) Stop() {
	s.stopOnce.Do(func() {
		s.inner.Stop()
		close(s.done)
	})
}
