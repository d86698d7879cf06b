package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"timeclock/internal/model"
)

func TestComputeTotalHours(t *testing.T) {
	tests := []struct {
		name   string
		record *model.Timesheet
		want   float64
	}{
		{"full day with lunch", record(tod(9, 0), tod(12, 0), tod(13, 0), tod(18, 0)), 8.0},
		{"full day without lunch", record(tod(9, 0), nil, nil, tod(18, 0)), 9.0},
		{"lunch start only is not subtracted", &model.Timesheet{EntryTime: tod(9, 0), LunchStart: tod(12, 0), ExitTime: tod(18, 0)}, 9.0},
		{"lunch end only is not subtracted", &model.Timesheet{EntryTime: tod(9, 0), LunchEnd: tod(13, 0), ExitTime: tod(18, 0)}, 9.0},
		{"no exit yet", record(tod(9, 0), tod(12, 0), tod(13, 0), nil), 0},
		{"no entry", &model.Timesheet{ExitTime: tod(18, 0)}, 0},
		{"empty", record(nil, nil, nil, nil), 0},
		{"minutes", record(tod(8, 45), tod(12, 10), tod(12, 40), tod(17, 15)), 8.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeTotalHours(tt.record), 1e-9)
		})
	}
}

func TestComputeOvertime(t *testing.T) {
	assert.InDelta(t, 1.5, ComputeOvertime(9.5, 8.0), 1e-9)
	assert.Equal(t, 0.0, ComputeOvertime(7.0, 8.0))
	assert.Equal(t, 0.0, ComputeOvertime(8.0, 8.0))
	assert.InDelta(t, 0.5, ComputeOvertime(6.5, 6.0), 1e-9)
}

func withTotal(h float64) *model.Timesheet {
	return &model.Timesheet{TotalHours: &h}
}

func TestSummarizeRange(t *testing.T) {
	records := []*model.Timesheet{withTotal(8), withTotal(10), withTotal(6)}

	got := SummarizeRange(records, 8.0)
	assert.Equal(t, 3, got.Days)
	assert.InDelta(t, 24.0, got.TotalHours, 1e-9)
	assert.InDelta(t, 24.0, got.ExpectedHours, 1e-9)
	assert.Equal(t, 0.0, got.OvertimeHours)

	got = SummarizeRange(append(records, withTotal(9)), 8.0)
	assert.InDelta(t, 33.0, got.TotalHours, 1e-9)
	assert.InDelta(t, 1.0, got.OvertimeHours, 1e-9)
}

func TestSummarizeRange_UnsetTotalsCountAsZero(t *testing.T) {
	open := model.NewTimesheet(1, day)
	open.EntryTime = tod(9, 0)

	got := SummarizeRange([]*model.Timesheet{withTotal(10), open}, 4.0)
	assert.Equal(t, 2, got.Days)
	assert.InDelta(t, 10.0, got.TotalHours, 1e-9)
	assert.InDelta(t, 2.0, got.OvertimeHours, 1e-9)

	empty := SummarizeRange(nil, 8.0)
	assert.Equal(t, RangeSummary{}, empty)
}

func TestSchedule(t *testing.T) {
	s := DefaultSchedule()
	assert.Equal(t, 8.0, s.StandardHours(model.CategoryAdministrator))
	assert.Equal(t, 8.0, s.StandardHours(model.CategoryWorker))
	assert.Equal(t, 6.0, s.StandardHours(model.CategoryIntern))
	assert.Equal(t, 8.0, s.StandardHours("contractor"))

	custom := NewSchedule(map[string]float64{"intern": 7, "worker": 0}, 0)
	assert.Equal(t, 7.0, custom.StandardHours(model.CategoryIntern))
	assert.Equal(t, DefaultStandardHours, custom.StandardHours(model.CategoryWorker))
}

func TestWeekRange(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{monday, monday.AddDate(0, 0, 2).Add(15 * time.Hour), sunday.Add(23 * time.Hour)} {
		start, end := WeekRange(d)
		assert.Equal(t, monday, start, d.String())
		assert.Equal(t, sunday, end, d.String())
	}
}
