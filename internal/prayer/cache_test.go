package prayer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheAppliesOnlyLatestGeneration(t *testing.T) {
	c := NewScheduleCache()
	assert.Nil(t, c.Get())

	first := c.Issue("Jakarta", testDay)
	second := c.Issue("Bandung", testDay)
	assert.Greater(t, second.Generation, first.Generation)

	assert.False(t, c.Set(first, mustSchedule(t, testDay, jakartaTimes())))
	assert.Nil(t, c.Get())

	require.True(t, c.Set(second, mustSchedule(t, testDay, jakartaTimes())))
	snap := c.Get()
	require.NotNil(t, snap)
	assert.Equal(t, "Bandung", snap.LocationKey)
	assert.Equal(t, second.Generation, snap.Generation)
}

func TestCacheInvalidateDropsInFlight(t *testing.T) {
	c := NewScheduleCache()
	req := c.Issue("Jakarta", testDay)
	c.Invalidate()

	assert.False(t, c.Set(req, mustSchedule(t, testDay, jakartaTimes())))
	assert.Nil(t, c.Get())
}

func TestCacheRejectsNilSchedule(t *testing.T) {
	c := NewScheduleCache()
	req := c.Issue("Jakarta", testDay)
	assert.False(t, c.Set(req, nil))
}

func TestCacheConcurrentIssueAndSet(t *testing.T) {
	c := NewScheduleCache()
	sched := mustSchedule(t, testDay, jakartaTimes())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := c.Issue("Jakarta", testDay)
			c.Set(req, sched)
			_ = c.Get()
		}()
	}
	wg.Wait()

	final := c.Issue("Jakarta", testDay)
	require.True(t, c.Set(final, sched))
	assert.Equal(t, uint64(51), c.Get().Generation)
}
