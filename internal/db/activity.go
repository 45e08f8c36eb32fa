package db

import (
	"time"

	"gorm.io/gorm"
)

// Activity is one free-text entry on a report, assigned to a weekday.
// DayOfWeek runs 1 (Monday) through 7; the editor only uses 1..5.
type Activity struct {
	gorm.Model
	ReportID     uint `gorm:"not null;index"`
	DayOfWeek    int  `gorm:"not null"`
	Date         time.Time
	ActivityText string
}
