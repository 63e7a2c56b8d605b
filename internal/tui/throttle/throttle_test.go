package throttle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/govlist/internal/tui/throttle"
)

func TestThrottle_Allow(t *testing.T) {
	base := time.Unix(1000, 0)
	th := throttle.New("search", 100*time.Millisecond)

	ok, wait := th.Allow(base)
	assert.True(t, ok, "first event always passes")
	assert.Zero(t, wait)

	ok, wait = th.Allow(base.Add(30 * time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 70*time.Millisecond, wait)

	ok, _ = th.Allow(base.Add(100 * time.Millisecond))
	assert.True(t, ok, "window reopens exactly at the interval")
}

func TestThrottle_ZeroIntervalPassesEverything(t *testing.T) {
	th := throttle.New("x", 0)
	now := time.Unix(0, 0)
	for range 5 {
		ok, _ := th.Allow(now)
		assert.True(t, ok)
	}
}

func TestThrottle_TriggerSchedulesTrailingFlush(t *testing.T) {
	base := time.Unix(2000, 0)
	th := throttle.New("search", 100*time.Millisecond)

	ok, cmd := th.Trigger(base)
	require.True(t, ok)
	assert.Nil(t, cmd)

	ok, cmd = th.Trigger(base.Add(10 * time.Millisecond))
	require.False(t, ok)
	require.NotNil(t, cmd)
	assert.True(t, th.Pending())

	// A later event supersedes the first trailing flush.
	ok, cmd2 := th.Trigger(base.Add(20 * time.Millisecond))
	require.False(t, ok)
	require.NotNil(t, cmd2)

	stale := throttle.FlushMsg{ID: "search", Seq: 2}
	current := throttle.FlushMsg{ID: "search", Seq: 3}

	assert.False(t, th.Flush(stale, base.Add(100*time.Millisecond)))
	assert.False(t, th.Flush(throttle.FlushMsg{ID: "other", Seq: 3}, base.Add(100*time.Millisecond)))
	assert.True(t, th.Flush(current, base.Add(100*time.Millisecond)))
	assert.False(t, th.Pending())
	assert.False(t, th.Flush(current, base.Add(101*time.Millisecond)), "a flush is consumed once")
}

func TestThrottle_TriggerCommandDeliversFlushMsg(t *testing.T) {
	base := time.Now()
	th := throttle.New("sort", time.Millisecond)

	th.Trigger(base)
	_, cmd := th.Trigger(base)
	require.NotNil(t, cmd)

	msg := cmd()
	flush, ok := msg.(throttle.FlushMsg)
	require.True(t, ok)
	assert.Equal(t, "sort", flush.ID)
	assert.Equal(t, uint64(2), flush.Seq)
}
