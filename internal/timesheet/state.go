// Package timesheet holds the clock-event rules for a single user's working day:
// which events may be registered and in what order, and how the recorded times
// reduce into worked hours and overtime.
//
// Everything here is a pure function of a *model.Timesheet. Nothing reads the
// wall clock, touches storage or takes locks; callers supply the timestamp and
// serialize access to a record.
package timesheet

import (
	"fmt"

	"timeclock/internal/model"
)

// State is the position of a record in the day's event sequence. It is derived
// from which time slots are set and never stored.
type State string

const (
	StateNotStarted        State = "NOT_STARTED"
	StateWorking           State = "WORKING"
	StateOnLunch           State = "ON_LUNCH"
	StateWorkingAfterLunch State = "WORKING_AFTER_LUNCH"
	StateComplete          State = "COMPLETE"
)

type EventKind string

const (
	EventEntry      EventKind = "entry"
	EventLunchStart EventKind = "lunch_start"
	EventLunchEnd   EventKind = "lunch_end"
	EventExit       EventKind = "exit"
)

// Events lists every event kind in day order.
var Events = []EventKind{EventEntry, EventLunchStart, EventLunchEnd, EventExit}

// transitions is the single source of truth for legal moves. A missing entry
// means the event is rejected in that state.
var transitions = map[State]map[EventKind]State{
	StateNotStarted:        {EventEntry: StateWorking},
	StateWorking:           {EventLunchStart: StateOnLunch, EventExit: StateComplete},
	StateOnLunch:           {EventLunchEnd: StateWorkingAfterLunch},
	StateWorkingAfterLunch: {EventExit: StateComplete},
	StateComplete:          {},
}

// ParseEventKind validates user input at the boundary. Passing an unvalidated
// kind to RegisterEvent is a programming error.
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range Events {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown clock event %q", s)
}

// StateOf derives the state from the latest filled slot.
func StateOf(ts *model.Timesheet) State {
	switch {
	case ts.ExitTime != nil:
		return StateComplete
	case ts.LunchEnd != nil:
		return StateWorkingAfterLunch
	case ts.LunchStart != nil:
		return StateOnLunch
	case ts.EntryTime != nil:
		return StateWorking
	default:
		return StateNotStarted
	}
}

// NextEvents returns the events the record accepts right now, in day order.
func NextEvents(ts *model.Timesheet) []EventKind {
	allowed := transitions[StateOf(ts)]
	next := make([]EventKind, 0, len(allowed))
	for _, k := range Events {
		if _, ok := allowed[k]; ok {
			next = append(next, k)
		}
	}
	return next
}

func slot(ts *model.Timesheet, kind EventKind) **model.TimeOfDay {
	switch kind {
	case EventEntry:
		return &ts.EntryTime
	case EventLunchStart:
		return &ts.LunchStart
	case EventLunchEnd:
		return &ts.LunchEnd
	case EventExit:
		return &ts.ExitTime
	}
	panic(fmt.Sprintf("timesheet: invalid event kind %q", kind))
}

// lastRecorded returns the latest time already on the record, or nil.
func lastRecorded(ts *model.Timesheet) *model.TimeOfDay {
	for i := len(Events) - 1; i >= 0; i-- {
		if t := *slot(ts, Events[i]); t != nil {
			return t
		}
	}
	return nil
}
