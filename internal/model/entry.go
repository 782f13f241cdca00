package model

import (
	"strings"
	"time"
)

// WorkType is the contract type of an employee. It decides the base hours
// credited for a worked Sunday.
type WorkType int

const (
	UnknownWorkType WorkType = iota
	FiveDay
	SixDay
)

// Roster labels of the work types.
const (
	FiveDayLabel = "5ΗΜΕΡΟΣ"
	SixDayLabel  = "6ΗΜΕΡΟΣ"
)

// ParseWorkType maps a roster label to a WorkType. Unknown labels map to
// UnknownWorkType.
func ParseWorkType(s string) WorkType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case FiveDayLabel:
		return FiveDay
	case SixDayLabel:
		return SixDay
	default:
		return UnknownWorkType
	}
}

// BaseHours returns the hours of a regular working day for the work type.
func (w WorkType) BaseHours() float64 {
	switch w {
	case FiveDay:
		return 8.0
	case SixDay:
		return 6.67
	default:
		return 0
	}
}

func (w WorkType) String() string {
	switch w {
	case FiveDay:
		return FiveDayLabel
	case SixDay:
		return SixDayLabel
	default:
		return "unknown"
	}
}

// ScheduleEntry represents one attendance record of one employee on one day.
type ScheduleEntry struct {
	Date           time.Time `json:"date"`
	EmployeeID     string    `json:"employee_id"`
	ScheduledHours *float64  `json:"scheduled_hours,omitempty"`
	WorkType       WorkType  `json:"work_type"`
	// IsRestDay is set by rest-day reconciliation, never at ingestion.
	IsRestDay bool `json:"is_rest_day"`
}

// Key identifies an entry within a run.
type Key struct {
	EmployeeID string
	Date       string
}

// Key returns the (employee, date) identity of e.
func (e ScheduleEntry) Key() Key {
	return Key{EmployeeID: e.EmployeeID, Date: e.Date.Format("2006-01-02")}
}
