package timesheet

import (
	"time"

	"timeclock/internal/model"
)

// WeekRange returns the Monday and Sunday dates of the week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	d := model.DateOf(t)
	offset := int(d.Weekday())
	if offset == 0 {
		offset = 7
	}
	start := d.AddDate(0, 0, -offset+1)
	return start, start.AddDate(0, 0, 6)
}
