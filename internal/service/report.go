package service

import (
	"context"
	"time"

	"timeclock/internal/model"
	"timeclock/internal/store"
	"timeclock/internal/timesheet"
)

type Dashboard struct {
	Date           string                 `json:"date"`
	TotalUsers     int                    `json:"total_users"`
	ActiveUsers    int                    `json:"active_users"`
	ClockedInToday int                    `json:"clocked_in_today"`
	ByCategory     map[model.Category]int `json:"by_category"`
	Today          []TodayRow             `json:"today"`
}

type TodayRow struct {
	User      model.Profile    `json:"user"`
	State     timesheet.State  `json:"state"`
	Timesheet *model.Timesheet `json:"timesheet"`
}

// ReportFilter selects an inclusive date range, optionally for a single user.
type ReportFilter struct {
	Start  time.Time
	End    time.Time
	UserID int
}

type UserReport struct {
	User          model.Profile          `json:"user"`
	StandardHours float64                `json:"standard_hours"`
	Days          []*model.Timesheet     `json:"days"`
	Summary       timesheet.RangeSummary `json:"summary"`
}

type ReportService struct {
	users      store.Users
	timesheets store.Timesheets
	clock      timesheet.Clock
	schedule   timesheet.Schedule
}

func NewReportService(users store.Users, timesheets store.Timesheets, clock timesheet.Clock, schedule timesheet.Schedule) *ReportService {
	return &ReportService{users: users, timesheets: timesheets, clock: clock, schedule: schedule}
}

// DefaultRange is the first day of the current month through today.
func (s *ReportService) DefaultRange() (time.Time, time.Time) {
	today := model.DateOf(s.clock.Now())
	return today.AddDate(0, 0, 1-today.Day()), today
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := model.DateOf(s.clock.Now())
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.timesheets.LoadDay(ctx, today)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Date:       today.Format(model.DateLayout),
		TotalUsers: len(users),
		ByCategory: make(map[model.Category]int),
		Today:      make([]TodayRow, 0, len(records)),
	}
	byID := make(map[int]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
		d.ByCategory[u.Category]++
		if u.Active {
			d.ActiveUsers++
		}
	}
	for _, ts := range records {
		u, ok := byID[ts.UserID]
		if !ok {
			continue
		}
		if ts.EntryTime != nil {
			d.ClockedInToday++
		}
		d.Today = append(d.Today, TodayRow{User: model.ProfileOf(u), State: timesheet.StateOf(ts), Timesheet: ts})
	}
	return d, nil
}

// UserReports groups the range's records per user, in user name order.
// Users without records in the range are left out.
func (s *ReportService) UserReports(ctx context.Context, f ReportFilter) ([]UserReport, error) {
	start, end := model.DateOf(f.Start), model.DateOf(f.End)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	var (
		users   []*model.User
		records []*model.Timesheet
		err     error
	)
	if f.UserID != 0 {
		u, err := s.users.GetByID(ctx, f.UserID)
		if err != nil {
			return nil, err
		}
		users = []*model.User{u}
		records, err = s.timesheets.LoadRange(ctx, u.ID, start, end)
		if err != nil {
			return nil, err
		}
	} else {
		if users, err = s.users.List(ctx); err != nil {
			return nil, err
		}
		if records, err = s.timesheets.LoadAllRange(ctx, start, end); err != nil {
			return nil, err
		}
	}

	byUser := make(map[int][]*model.Timesheet)
	for _, ts := range records {
		byUser[ts.UserID] = append(byUser[ts.UserID], ts)
	}

	reports := make([]UserReport, 0, len(byUser))
	for _, u := range users {
		days, ok := byUser[u.ID]
		if !ok {
			continue
		}
		std := s.schedule.StandardHours(u.Category)
		reports = append(reports, UserReport{
			User:          model.ProfileOf(u),
			StandardHours: std,
			Days:          days,
			Summary:       timesheet.SummarizeRange(days, std),
		})
	}
	return reports, nil
}
