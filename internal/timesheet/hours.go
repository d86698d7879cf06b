package timesheet

import (
	"math"

	"timeclock/internal/model"
)

// ComputeTotalHours returns the hours between entry and exit, net of lunch.
//
// Zero until both entry and exit are set. Lunch is subtracted only when both of
// its ends are recorded. Shifts are assumed not to cross midnight.
func ComputeTotalHours(ts *model.Timesheet) float64 {
	if ts.EntryTime == nil || ts.ExitTime == nil {
		return 0
	}
	worked := ts.ExitTime.Sub(*ts.EntryTime)
	if ts.LunchStart != nil && ts.LunchEnd != nil {
		worked -= ts.LunchEnd.Sub(*ts.LunchStart)
	}
	return worked.Hours()
}

// ComputeOvertime floors total-standard at zero.
func ComputeOvertime(totalHours, standardHours float64) float64 {
	return math.Max(0, totalHours-standardHours)
}

// RangeSummary aggregates a run of daily records.
type RangeSummary struct {
	Days          int     `json:"days"`
	TotalHours    float64 `json:"total_hours"`
	ExpectedHours float64 `json:"expected_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// SummarizeRange sums the stored totals (unset counts as zero) and measures
// overtime against standardPerDay for every record given. A short day offsets
// a long one; there is no per-day cap.
func SummarizeRange(records []*model.Timesheet, standardPerDay float64) RangeSummary {
	var total float64
	for _, r := range records {
		if r.TotalHours != nil {
			total += *r.TotalHours
		}
	}
	expected := standardPerDay * float64(len(records))
	return RangeSummary{
		Days:          len(records),
		TotalHours:    total,
		ExpectedHours: expected,
		OvertimeHours: ComputeOvertime(total, expected),
	}
}
