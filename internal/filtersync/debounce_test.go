package filtersync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer(t *testing.T) {
	t.Run("Only the last trigger fires", func(t *testing.T) {
		sched := &fakeScheduler{}
		d := NewDebouncer(sched, DefaultDelay)

		var got []string
		for _, v := range []string{"a", "ab", "abc"} {
			v := v
			d.Trigger("search", func() { got = append(got, v) })
			sched.Advance(100 * time.Millisecond)
		}
		assert.Empty(t, got)
		assert.True(t, d.Pending("search"))

		sched.Advance(200 * time.Millisecond)
		assert.Equal(t, []string{"abc"}, got)
		assert.False(t, d.Pending("search"))
		assert.Zero(t, sched.active())
	})

	t.Run("Keys are independent", func(t *testing.T) {
		sched := &fakeScheduler{}
		d := NewDebouncer(sched, DefaultDelay)

		var search, price int32
		d.Trigger("search", func() { atomic.AddInt32(&search, 1) })
		d.Trigger("price", func() { atomic.AddInt32(&price, 1) })
		sched.Advance(DefaultDelay)

		assert.Equal(t, int32(1), search)
		assert.Equal(t, int32(1), price)
	})

	t.Run("Cancel and Stop", func(t *testing.T) {
		sched := &fakeScheduler{}
		d := NewDebouncer(sched, DefaultDelay)

		fired := false
		d.Trigger("a", func() { fired = true })
		d.Cancel("a")
		d.Trigger("b", func() { fired = true })
		d.Stop()
		sched.Advance(time.Second)

		assert.False(t, fired)
		assert.False(t, d.Pending("b"))
	})

	t.Run("Superseded callback that escaped Stop is ignored", func(t *testing.T) {
		sched := &fakeScheduler{}
		d := NewDebouncer(sched, DefaultDelay)

		var got []string
		d.Trigger("search", func() { got = append(got, "old") })
		stale := sched.timers[0].f
		d.Trigger("search", func() { got = append(got, "new") })

		stale()
		sched.Advance(DefaultDelay)

		assert.Equal(t, []string{"new"}, got)
	})

	t.Run("Defaults", func(t *testing.T) {
		d := NewDebouncer(nil, 0)
		assert.Equal(t, DefaultDelay, d.delay)
		assert.Equal(t, RealScheduler, d.sched)
	})
}

func TestRealScheduler(t *testing.T) {
	done := make(chan struct{})
	RealScheduler.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
