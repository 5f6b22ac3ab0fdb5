package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyberstack/hemu/internal/config"
)

// 2026-01-05 is a Monday.
func at(day, hour, minute, second int) time.Time {
	return time.Date(2026, 1, day, hour, minute, second, 0, time.Local)
}

func TestQuietActive(t *testing.T) {
	t.Parallel()

	q, err := NewQuiet(config.QuietConfig{
		Enabled: true,
		Start:   "09:00",
		End:     "17:30",
		Days:    []string{"monday", "tuesday"},
	})
	require.NoError(t, err)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "Start minute", now: at(5, 9, 0, 0), want: true},
		{name: "Midday", now: at(5, 12, 0, 0), want: true},
		{name: "Last second of end minute", now: at(5, 17, 30, 59), want: true},
		{name: "After end", now: at(5, 17, 31, 0), want: false},
		{name: "Before start", now: at(5, 8, 59, 59), want: false},
		{name: "Other weekday", now: at(7, 12, 0, 0), want: false},
		{name: "Tuesday", now: at(6, 10, 0, 0), want: true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, q.Active(tc.now), tc.name)
	}
}

func TestQuietOvernight(t *testing.T) {
	t.Parallel()

	q, err := NewQuiet(config.QuietConfig{
		Enabled: true,
		Start:   "22:00",
		End:     "07:00",
		Days:    []string{"friday"},
	})
	require.NoError(t, err)

	// 2026-01-09 is a Friday.
	require.True(t, q.Active(at(9, 23, 0, 0)))
	require.True(t, q.Active(at(10, 6, 30, 0)), "Saturday morning belongs to Friday night")
	require.False(t, q.Active(at(10, 22, 30, 0)), "Saturday night is not configured")
	require.False(t, q.Active(at(9, 12, 0, 0)))
}

func TestQuietDisabledAndMutes(t *testing.T) {
	t.Parallel()

	off, err := NewQuiet(config.QuietConfig{Start: "00:00", End: "23:59", Days: []string{"monday"}})
	require.NoError(t, err)
	require.False(t, off.Active(at(5, 12, 0, 0)))

	keepScript := false
	q, err := NewQuiet(config.QuietConfig{
		Enabled: true,
		Start:   "00:00",
		End:     "23:59",
		Days:    []string{"monday"},
		Script:  &keepScript,
	})
	require.NoError(t, err)

	now := at(5, 12, 0, 0)
	require.True(t, q.MutesNotify(now))
	require.False(t, q.MutesScript(now))
	require.False(t, q.MutesNotify(at(6, 12, 0, 0)))

	_, err = NewQuiet(config.QuietConfig{Enabled: true, Start: "9am", End: "17:00"})
	require.Error(t, err)
}
