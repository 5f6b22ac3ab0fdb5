package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Parallel()

	for _, e := range Events {
		got, err := ParseEvent(e.String())
		require.NoError(t, err)
		require.Equal(t, e, got)
	}

	got, err := ParseEvent("  system_sleep ")
	require.NoError(t, err)
	require.Equal(t, SystemSleep, got)

	got, err = ParseEvent("131")
	require.NoError(t, err)
	require.Equal(t, SystemUnlock, got)

	_, err = ParseEvent("HIBERNATE")
	require.Error(t, err)

	_, err = ParseEvent("999")
	require.Error(t, err)
}

func TestParseEvents(t *testing.T) {
	t.Parallel()

	set, err := ParseEvents([]string{"system_lock", "131", "SYSTEM_LOCK"})
	require.NoError(t, err)
	require.Equal(t, map[Event]bool{SystemLock: true, SystemUnlock: true}, set)

	_, err = ParseEvents([]string{"SYSTEM_LOCK", "nope"})
	require.Error(t, err)
}

func TestEventTags(t *testing.T) {
	t.Parallel()

	seen := map[int]Event{}
	for _, e := range Events {
		tag := e.Tag()
		require.NotZero(t, tag, "event %s has no tag", e)
		require.NotContains(t, seen, tag, "tag %d reused", tag)
		seen[tag] = e
	}

	require.Equal(t, 120, SystemSleep.Tag())
	require.Zero(t, Event("BOGUS").Tag())

	for tag, e := range seen {
		got, ok := EventByTag(tag)
		require.True(t, ok)
		require.Equal(t, e, got)
	}
	_, ok := EventByTag(0)
	require.False(t, ok)
}
