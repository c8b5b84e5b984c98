package prayer

import "time"

// TriggerState is the dedup guard of the matcher. For a given ActiveDate at
// most one trigger fires per distinct minute.
type TriggerState struct {
	LastTriggeredMinute *TimeOfDay
	ActiveDate          Date
}

// Reset clears the guard and moves it to date.
func (s *TriggerState) Reset(date Date) {
	s.LastTriggeredMinute = nil
	s.ActiveDate = date
}

// Matcher compares the current minute against a schedule.
type Matcher struct {
	state TriggerState
}

// NewMatcher creates a matcher with an empty guard.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// State returns a copy of the dedup guard.
func (m *Matcher) State() TriggerState {
	st := m.state
	if st.LastTriggeredMinute != nil {
		minute := *st.LastTriggeredMinute
		st.LastTriggeredMinute = &minute
	}
	return st
}

// Reset clears the dedup guard for date.
func (m *Matcher) Reset(date Date) {
	m.state.Reset(date)
}

// Evaluate returns the prayer whose time equals the minute of now.
// No schedule, a schedule for another date, or a minute that already
// fired yields no match. The first entry in Order wins a tie.
func (m *Matcher) Evaluate(now time.Time, schedule *Schedule) (Name, bool) {
	if schedule == nil {
		return "", false
	}

	date := DateOf(now)
	minute := TimeOfDayOf(now)

	if schedule.Date() != date {
		return "", false
	}
	if last := m.state.LastTriggeredMinute; last != nil && *last == minute && m.state.ActiveDate == date {
		return "", false
	}

	for _, e := range schedule.entries {
		if e.Time == minute {
			m.state.LastTriggeredMinute = &minute
			m.state.ActiveDate = date
			return e.Name, true
		}
	}
	return "", false
}
