package timesheet

import (
	"fmt"
	"time"

	"timeclock/internal/model"
)

// Reason codes for a rejected event.
type Reason string

const (
	ReasonAlreadyRecorded   Reason = "already_recorded"
	ReasonDayComplete       Reason = "day_complete"
	ReasonOutOfOrder        Reason = "out_of_order"
	ReasonTimeGoesBackwards Reason = "time_goes_backwards"
)

// Outcome reports whether an event was applied. A rejection is a normal
// business answer; the record is left exactly as it was.
type Outcome struct {
	Allowed bool      `json:"allowed"`
	Event   EventKind `json:"event"`
	Reason  Reason    `json:"reason,omitempty"`
	Message string    `json:"message,omitempty"`
	State   State     `json:"state"`
}

// Error converts a rejection to an error, nil when allowed.
func (o Outcome) Error() error {
	if o.Allowed {
		return nil
	}
	return fmt.Errorf("%s", o.Message)
}

// RegisterEvent fills the slot for kind with the time-of-day of at.
//
// Rules:
//   - the slot must be empty
//   - the event must be legal from the current state (lunch_end needs lunch_start,
//     nothing follows exit)
//   - at must not be earlier than the last recorded event
//
// On exit the total is recomputed and the record becomes COMPLETE.
// RegisterEvent panics if kind is not one of Events.
func RegisterEvent(ts *model.Timesheet, kind EventKind, at time.Time) Outcome {
	field := slot(ts, kind)
	from := StateOf(ts)

	if *field != nil {
		return reject(kind, from, ReasonAlreadyRecorded, fmt.Sprintf("%s already recorded at %s", kind, *field))
	}
	to, ok := transitions[from][kind]
	if !ok {
		if from == StateComplete {
			return reject(kind, from, ReasonDayComplete, fmt.Sprintf("day already closed at %s", ts.ExitTime))
		}
		return reject(kind, from, ReasonOutOfOrder, fmt.Sprintf("cannot register %s while %s", kind, from))
	}

	tod := model.NewTimeOfDay(at)
	if last := lastRecorded(ts); last != nil && tod.Before(*last) {
		return reject(kind, from, ReasonTimeGoesBackwards, fmt.Sprintf("%s at %s is earlier than %s", kind, tod, last))
	}

	*field = &tod
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = at
	}
	ts.UpdatedAt = at

	if kind == EventExit {
		total := ComputeTotalHours(ts)
		ts.TotalHours = &total
		ts.Status = model.StatusComplete
	} else if ts.Status == "" {
		ts.Status = model.StatusInProgress
	}

	return Outcome{Allowed: true, Event: kind, State: to}
}

func reject(kind EventKind, st State, reason Reason, msg string) Outcome {
	return Outcome{Allowed: false, Event: kind, Reason: reason, Message: msg, State: st}
}
