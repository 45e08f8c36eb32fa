package db

import (
	"time"

	"gorm.io/gorm"
)

// DayHours stores the time worked on one weekday of a report. There is at
// most one row per (report, day of week).
type DayHours struct {
	gorm.Model
	ReportID  uint `gorm:"not null;uniqueIndex:idx_day_hours_report_day"`
	DayOfWeek int  `gorm:"not null;uniqueIndex:idx_day_hours_report_day"`
	Date      time.Time
	Hours     int
	Minutes   int
}

// Total returns the worked time of the day in fractional hours.
func (d *DayHours) Total() float64 {
	return float64(d.Hours) + float64(d.Minutes)/60
}
