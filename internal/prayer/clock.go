package prayer

import "time"

// TimeSource emits the current local time on a fixed cadence.
// Ticks missed while the receiver is busy are dropped, never back-filled.
type TimeSource interface {
	C() <-chan time.Time
	Now() time.Time
	Stop()
}

// TickerSource is a TimeSource backed by time.Ticker.
type TickerSource struct {
	ticker *time.Ticker
}

// NewTickerSource starts a ticker with the given interval.
func NewTickerSource(interval time.Duration) *TickerSource {
	return &TickerSource{ticker: time.NewTicker(interval)}
}

// C returns the tick channel.
func (s *TickerSource) C() <-chan time.Time { return s.ticker.C }

// Now returns the local wall clock.
func (s *TickerSource) Now() time.Time { return time.Now() }

// Stop stops the ticker.
func (s *TickerSource) Stop() { s.ticker.Stop() }
