package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerEmptyQueue(t *testing.T) {
	s := NewScheduler()

	id, ok := s.Next()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestSchedulerEnqueueDeduplicates(t *testing.T) {
	s := NewScheduler()
	s.Enqueue("a")
	s.Enqueue("a")
	s.Enqueue("b")

	assert.Equal(t, []string{"a", "b"}, s.Snapshot())
}

func TestSchedulerRoundRobinFairness(t *testing.T) {
	s := NewScheduler()
	for _, id := range []string{"a", "b", "c"} {
		s.Enqueue(id)
	}

	var seen []string
	for i := 0; i < 6; i++ {
		id, ok := s.Next()
		require.True(t, ok)
		seen = append(seen, id)
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, seen)
}

func TestSchedulerNeverRepeatsWithTwoItems(t *testing.T) {
	s := NewScheduler()
	s.Enqueue("a")
	s.Enqueue("b")

	prev, ok := s.Next()
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		id, ok := s.Next()
		require.True(t, ok)
		assert.NotEqual(t, prev, id)
		prev = id
	}
}

func TestSchedulerNextOnlyReturnsQueuedIds(t *testing.T) {
	s := NewScheduler()
	s.Enqueue("a")
	s.Enqueue("b")
	s.Enqueue("c")
	s.Remove("b")

	queued := map[string]bool{"a": true, "c": true}
	for i := 0; i < 8; i++ {
		id, ok := s.Next()
		require.True(t, ok)
		assert.True(t, queued[id], "unexpected id %q", id)
	}
}

func TestSchedulerRemoveAtCursorDoesNotSkip(t *testing.T) {
	s := NewScheduler()
	for _, id := range []string{"a", "b", "c"} {
		s.Enqueue(id)
	}

	id, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, "a", id)

	// Cursor now points at b. Removing b must make c the next item.
	s.Remove("b")

	id, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, "c", id)
}

func TestSchedulerRemoveBeforeCursor(t *testing.T) {
	s := NewScheduler()
	for _, id := range []string{"a", "b", "c"} {
		s.Enqueue(id)
	}

	_, _ = s.Next() // a
	_, _ = s.Next() // b, cursor at c

	s.Remove("a")

	id, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "c", id)
}

func TestSchedulerRemoveLastItemResetsCursor(t *testing.T) {
	s := NewScheduler()
	s.Enqueue("a")
	_, _ = s.Next()
	s.Remove("a")

	_, ok := s.Next()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestSchedulerPrioritizeOrdering(t *testing.T) {
	s := NewScheduler()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Enqueue(id)
	}

	s.Prioritize([]string{"b", "c"})

	assert.Equal(t, []string{"b", "c", "a", "d"}, s.Snapshot())
}

func TestSchedulerPrioritizeIgnoresUnknownIds(t *testing.T) {
	s := NewScheduler()
	s.Enqueue("a")
	s.Enqueue("b")

	s.Prioritize([]string{"zz", "b"})

	assert.Equal(t, []string{"b", "a"}, s.Snapshot())
	assert.Equal(t, 2, s.Len())
}

func TestSchedulerPrioritizedIdIsHandedOutNext(t *testing.T) {
	s := NewScheduler()
	for _, id := range []string{"a", "b", "c"} {
		s.Enqueue(id)
	}
	_, _ = s.Next() // advance cursor past a

	s.Prioritize([]string{"c"})

	id, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "c", id)
}
