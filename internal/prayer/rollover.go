package prayer

import "time"

// RolloverDetector decides when the cached schedule is stale.
//
// A refresh is due when no request was ever issued, when the calendar date
// of now differs from the last requested date, or when the location key
// differs from the last requested one. A request that is in flight or
// failed for the current (location, date) is not reissued on every tick;
// Reissue does that explicitly.
type RolloverDetector struct {
	cache *ScheduleCache
	last  *RefreshRequest
}

// NewRolloverDetector creates a detector issuing requests through cache.
func NewRolloverDetector(cache *ScheduleCache) *RolloverDetector {
	return &RolloverDetector{cache: cache}
}

// Check returns a new request when a refresh is due for now and locationKey.
func (d *RolloverDetector) Check(now time.Time, locationKey string) (RefreshRequest, bool) {
	date := DateOf(now)
	if d.last != nil && d.last.Date == date && d.last.LocationKey == locationKey {
		return RefreshRequest{}, false
	}
	return d.issue(locationKey, date), true
}

// Reissue unconditionally issues a request for now and locationKey.
func (d *RolloverDetector) Reissue(now time.Time, locationKey string) RefreshRequest {
	return d.issue(locationKey, DateOf(now))
}

// Last returns the most recently issued request.
func (d *RolloverDetector) Last() (RefreshRequest, bool) {
	if d.last == nil {
		return RefreshRequest{}, false
	}
	return *d.last, true
}

func (d *RolloverDetector) issue(locationKey string, date Date) RefreshRequest {
	req := d.cache.Issue(locationKey, date)
	d.last = &req
	return req
}
