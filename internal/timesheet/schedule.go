package timesheet

import "timeclock/internal/model"

const DefaultStandardHours = 8.0

// Schedule maps a user category to its standard daily hours.
type Schedule struct {
	ByCategory map[model.Category]float64
	Default    float64
}

// DefaultSchedule is the stock baseline: full-time categories work 8h, interns 6h.
func DefaultSchedule() Schedule {
	return Schedule{
		ByCategory: map[model.Category]float64{
			model.CategoryAdministrator: 8,
			model.CategoryWorker:        8,
			model.CategoryIntern:        6,
		},
		Default: DefaultStandardHours,
	}
}

// NewSchedule builds a Schedule from config-style string keys.
func NewSchedule(byCategory map[string]float64, fallback float64) Schedule {
	s := Schedule{ByCategory: make(map[model.Category]float64, len(byCategory)), Default: fallback}
	for k, v := range byCategory {
		s.ByCategory[model.Category(k)] = v
	}
	if s.Default <= 0 {
		s.Default = DefaultStandardHours
	}
	return s
}

func (s Schedule) StandardHours(c model.Category) float64 {
	if h, ok := s.ByCategory[c]; ok && h > 0 {
		return h
	}
	return s.Default
}
