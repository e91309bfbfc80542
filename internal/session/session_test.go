package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateGeneratesIDWhenEmpty(t *testing.T) {
	m := NewManager()
	sess := m.GetOrCreate("")
	assert.NotEmpty(t, sess.ID)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestGetOrCreateReusesSessionOnCollision(t *testing.T) {
	m := NewManager()
	first := m.GetOrCreate("client-chosen-id")
	second := m.GetOrCreate("client-chosen-id")

	assert.Same(t, first, second, "a client-supplied id colliding with a live session must reuse it")
}

func TestGetMissingSessionReportsAbsent(t *testing.T) {
	m := NewManager()
	_, ok := m.Get("does-not-exist")
	assert.False(t, ok)
}

func TestRemoveDeletesAndTerminates(t *testing.T) {
	m := NewManager()
	sess := m.GetOrCreate("a")

	assert.True(t, m.Remove("a"))
	_, ok := m.Get("a")
	assert.False(t, ok, "a removed session must be absent for subsequent lookups")
	assert.False(t, sess.Active())

	assert.False(t, m.Remove("a"), "removing an already-removed session is a no-op")
}

func TestEnqueuePreservesOrder(t *testing.T) {
	sess := newSession("s")
	sess.Enqueue("one")
	sess.Enqueue("two")
	sess.Enqueue("three")

	first, ok := sess.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, "one", first)

	second, ok := sess.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, "two", second)

	third, ok := sess.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, "three", third)
}

func TestDequeueTimesOutWhenEmpty(t *testing.T) {
	sess := newSession("s")
	_, ok := sess.Dequeue(20 * time.Millisecond)
	assert.False(t, ok)
}

func TestDequeueWakesOnEnqueue(t *testing.T) {
	sess := newSession("s")

	done := make(chan struct{})
	var got interface{}
	var ok bool
	go func() {
		got, ok = sess.Dequeue(2 * time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	sess.Enqueue("hello")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dequeue did not wake on Enqueue")
	}

	assert.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestEnqueueAfterTerminateIsNoOp(t *testing.T) {
	sess := newSession("s")
	sess.Terminate()
	sess.Enqueue("dropped")

	_, ok := sess.Dequeue(20 * time.Millisecond)
	assert.False(t, ok, "Enqueue on an inactive session must not be observable")
}

func TestTerminateDiscardsQueuedMessages(t *testing.T) {
	sess := newSession("s")
	sess.Enqueue("pending")
	sess.Terminate()

	assert.False(t, sess.Active())
	_, ok := sess.Dequeue(20 * time.Millisecond)
	assert.False(t, ok)
}

func TestTouchAdvancesLastAccessed(t *testing.T) {
	sess := newSession("s")
	sess.lastAccessed = time.Now().Add(-time.Hour)
	before := sess.LastAccessed()

	sess.Touch()

	assert.True(t, sess.LastAccessed().After(before))
}

func TestReapIdleRemovesOnlyStaleSessions(t *testing.T) {
	m := NewManager()

	stale := m.GetOrCreate("stale")
	stale.lastAccessed = time.Now().Add(-time.Hour)

	fresh := m.GetOrCreate("fresh")
	fresh.Touch()

	n := m.ReapIdle(time.Minute)
	assert.Equal(t, 1, n)

	_, ok := m.Get("stale")
	assert.False(t, ok)
	assert.False(t, stale.Active())

	_, ok = m.Get("fresh")
	assert.True(t, ok)
	assert.True(t, fresh.Active())
}

func TestSnapshotReflectsCurrentSessions(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("a")
	m.GetOrCreate("b")

	snap := m.Snapshot()
	assert.Len(t, snap, 2)

	m.Remove("a")
	snap = m.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, "b", snap[0].ID)
}
