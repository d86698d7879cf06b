package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"timeclock/internal/logger"
	"timeclock/internal/model"
	"timeclock/internal/store"
	"timeclock/internal/timesheet"
)

var ErrInvalidRange = errors.New("start date is after end date")

// DayView is one day's record with its derived figures.
type DayView struct {
	Date          string                `json:"date"`
	Timesheet     *model.Timesheet      `json:"timesheet"`
	State         timesheet.State       `json:"state"`
	NextEvents    []timesheet.EventKind `json:"next_events"`
	TotalHours    float64               `json:"total_hours"`
	StandardHours float64               `json:"standard_hours"`
	OvertimeHours float64               `json:"overtime_hours"`
}

type RangeView struct {
	Start   string                 `json:"start"`
	End     string                 `json:"end"`
	Days    []DayView              `json:"days"`
	Summary timesheet.RangeSummary `json:"summary"`
}

type RegisterResult struct {
	Outcome timesheet.Outcome `json:"outcome"`
	Day     DayView           `json:"day"`
}

type TimesheetService struct {
	timesheets store.Timesheets
	clock      timesheet.Clock
	schedule   timesheet.Schedule
	locks      keyedMutex
}

func NewTimesheetService(timesheets store.Timesheets, clock timesheet.Clock, schedule timesheet.Schedule) *TimesheetService {
	return &TimesheetService{timesheets: timesheets, clock: clock, schedule: schedule}
}

// Now is the service clock's current time.
func (s *TimesheetService) Now() time.Time { return s.clock.Now() }

// Register applies kind to the user's record for today, creating the record
// on the first event. A rejected event is reported in the result, not as an
// error, and leaves the stored record unchanged.
func (s *TimesheetService) Register(ctx context.Context, u *model.User, kind timesheet.EventKind) (*RegisterResult, error) {
	now := s.clock.Now()
	day := model.DateOf(now)

	unlock := s.locks.Lock(lockKey(u.ID))
	defer unlock()

	var res RegisterResult
	err := s.timesheets.WithinTx(ctx, func(tx store.Timesheets) error {
		ts, err := tx.Load(ctx, u.ID, day)
		if errors.Is(err, store.ErrNotFound) {
			ts = model.NewTimesheet(u.ID, day)
		} else if err != nil {
			return err
		}

		res.Outcome = timesheet.RegisterEvent(ts, kind, now)
		if !res.Outcome.Allowed {
			if ts.ID == 0 {
				ts = nil
			}
			res.Day = s.view(u, day, ts)
			return nil
		}
		if err := tx.Save(ctx, ts); err != nil {
			return err
		}
		res.Day = s.view(u, day, ts)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", kind, err)
	}

	if res.Outcome.Allowed {
		logger.Info("clock.register", "uid", u.ID, "event", kind, "state", res.Outcome.State)
	} else {
		logger.Warn("clock.rejected", "uid", u.ID, "event", kind, "reason", res.Outcome.Reason)
	}
	return &res, nil
}

// Today returns the user's current day; an empty NOT_STARTED view when nothing was recorded.
func (s *TimesheetService) Today(ctx context.Context, u *model.User) (*DayView, error) {
	day := model.DateOf(s.clock.Now())
	ts, err := s.timesheets.Load(ctx, u.ID, day)
	if errors.Is(err, store.ErrNotFound) {
		v := s.view(u, day, nil)
		return &v, nil
	}
	if err != nil {
		return nil, err
	}
	v := s.view(u, day, ts)
	return &v, nil
}

// Week covers Monday through Sunday around ref.
func (s *TimesheetService) Week(ctx context.Context, u *model.User, ref time.Time) (*RangeView, error) {
	start, end := timesheet.WeekRange(ref)
	return s.Range(ctx, u, start, end)
}

// Range lists the recorded days between start and end inclusive.
func (s *TimesheetService) Range(ctx context.Context, u *model.User, start, end time.Time) (*RangeView, error) {
	start, end = model.DateOf(start), model.DateOf(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	records, err := s.timesheets.LoadRange(ctx, u.ID, start, end)
	if err != nil {
		return nil, err
	}

	rv := &RangeView{
		Start:   start.Format(model.DateLayout),
		End:     end.Format(model.DateLayout),
		Days:    make([]DayView, 0, len(records)),
		Summary: timesheet.SummarizeRange(records, s.schedule.StandardHours(u.Category)),
	}
	for _, ts := range records {
		rv.Days = append(rv.Days, s.view(u, ts.Date, ts))
	}
	return rv, nil
}

// Flag marks a record for manual review by an administrator.
func (s *TimesheetService) Flag(ctx context.Context, userID int, date time.Time, note string) (*model.Timesheet, error) {
	unlock := s.locks.Lock(lockKey(userID))
	defer unlock()

	var out *model.Timesheet
	err := s.timesheets.WithinTx(ctx, func(tx store.Timesheets) error {
		ts, err := tx.Load(ctx, userID, date)
		if err != nil {
			return err
		}
		ts.Status = model.StatusNeedsAdjustment
		ts.Note = note
		ts.UpdatedAt = s.clock.Now()
		out = ts
		return tx.Save(ctx, ts)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("timesheet.flagged", "uid", userID, "date", date.Format(model.DateLayout))
	return out, nil
}

// Reset deletes the record so the day can be registered again.
func (s *TimesheetService) Reset(ctx context.Context, userID int, date time.Time) error {
	unlock := s.locks.Lock(lockKey(userID))
	defer unlock()

	if err := s.timesheets.Delete(ctx, userID, date); err != nil {
		return err
	}
	logger.Info("timesheet.reset", "uid", userID, "date", date.Format(model.DateLayout))
	return nil
}

func (s *TimesheetService) view(u *model.User, day time.Time, ts *model.Timesheet) DayView {
	std := s.schedule.StandardHours(u.Category)
	v := DayView{
		Date:          model.DateOf(day).Format(model.DateLayout),
		Timesheet:     ts,
		State:         timesheet.StateNotStarted,
		NextEvents:    []timesheet.EventKind{timesheet.EventEntry},
		StandardHours: std,
	}
	if ts == nil {
		return v
	}
	v.State = timesheet.StateOf(ts)
	v.NextEvents = timesheet.NextEvents(ts)
	if ts.TotalHours != nil {
		v.TotalHours = *ts.TotalHours
		v.OvertimeHours = timesheet.ComputeOvertime(v.TotalHours, std)
	}
	return v
}

// keyedMutex serializes work per key inside this process. Cross-process
// safety comes from the transaction and the (user_id, date) unique index.
type keyedMutex struct {
	m sync.Map
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	v, _ := k.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func lockKey(userID int) string { return "uid:" + strconv.Itoa(userID) }
