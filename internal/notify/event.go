package notify

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is a host power/session event that can be reported.
type Event string

const (
	ScreenSleep  Event = "SCREEN_SLEEP"
	ScreenWake   Event = "SCREEN_WAKE"
	SystemSleep  Event = "SYSTEM_SLEEP"
	SystemWake   Event = "SYSTEM_WAKE"
	SystemLock   Event = "SYSTEM_LOCK"
	SystemUnlock Event = "SYSTEM_UNLOCK"
)

// Events lists every known event in display order.
var Events = []Event{ScreenSleep, ScreenWake, SystemSleep, SystemWake, SystemLock, SystemUnlock}

// Tag is the stable numeric id of e. History records store it, and event
// lists in the config may use it in place of the name.
func (e Event) Tag() int {
	switch e {
	case ScreenSleep:
		return 110
	case ScreenWake:
		return 111
	case SystemSleep:
		return 120
	case SystemWake:
		return 121
	case SystemLock:
		return 130
	case SystemUnlock:
		return 131
	}
	return 0
}

func (e Event) String() string {
	return string(e)
}

// EventByTag returns the event with the given tag.
func EventByTag(tag int) (Event, bool) {
	for _, e := range Events {
		if e.Tag() == tag {
			return e, true
		}
	}
	return "", false
}

// ParseEvent accepts an event name in any case, e.g. "system_sleep", or
// its numeric tag, e.g. "120".
func ParseEvent(name string) (Event, error) {
	trimmed := strings.TrimSpace(name)
	if tag, err := strconv.Atoi(trimmed); err == nil {
		if e, ok := EventByTag(tag); ok {
			return e, nil
		}
		return "", fmt.Errorf("unknown event tag: %d", tag)
	}

	n := Event(strings.ToUpper(trimmed))
	for _, e := range Events {
		if e == n {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown event: %q", name)
}

// ParseEvents parses a list of event names or tags into a set.
func ParseEvents(names []string) (map[Event]bool, error) {
	set := make(map[Event]bool, len(names))
	for _, name := range names {
		e, err := ParseEvent(name)
		if err != nil {
			return nil, err
		}
		set[e] = true
	}
	return set, nil
}
