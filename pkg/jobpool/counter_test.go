package jobpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounterIncDecCount(t *testing.T) {
	c := newCounter()
	assert.EqualValues(t, 0, c.count())

	c.inc(nil)
	c.inc(nil)
	assert.EqualValues(t, 2, c.count())

	c.dec()
	assert.EqualValues(t, 1, c.count())
}

func TestCounterJoinReturnsImmediatelyWhenZero(t *testing.T) {
	c := newCounter()
	done := make(chan struct{})
	go func() {
		c.join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("join on a zero counter should return immediately")
	}
}

func TestCounterJoinBlocksUntilZero(t *testing.T) {
	c := newCounter()
	c.inc(nil)

	done := make(chan struct{})
	go func() {
		c.join()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("join should not return while count is nonzero")
	case <-time.After(20 * time.Millisecond):
	}

	c.dec()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("join should return once count reaches zero")
	}
}

func TestCounterIncBlocksAtBound(t *testing.T) {
	c := newCounter()
	bound := uint16(1)
	c.inc(&bound)

	blocked := make(chan struct{})
	go func() {
		c.inc(&bound)
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("inc should block while count >= bound")
	case <-time.After(20 * time.Millisecond):
	}

	c.dec()

	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatal("inc should unblock once count drops below bound")
	}
}
