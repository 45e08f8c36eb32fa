package db

import (
	"time"

	"gorm.io/gorm"
)

// Report status values.
const (
	StatusDraft           = "draft"
	StatusSubmitted       = "submitted"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusNeedsCorrection = "needs_correction"
)

// Report is one trainee's weekly activity report (Wochenbericht). At most one
// report exists per (user, week year, week number).
type Report struct {
	gorm.Model
	UserID     uint `gorm:"not null;uniqueIndex:idx_reports_user_week"`
	User       User
	WeekYear   int    `gorm:"not null;uniqueIndex:idx_reports_user_week"`
	WeekNumber int    `gorm:"not null;uniqueIndex:idx_reports_user_week"`
	Status     string `gorm:"not null;default:draft"`

	SubmittedAt           *time.Time
	ApprovedAt            *time.Time
	ApprovedBy            *uint
	RejectedAt            *time.Time
	CorrectionRequestedAt *time.Time

	AzubiSignature     string
	AusbilderSignature string
	SignedAt           *time.Time

	Activities []Activity       `gorm:"constraint:OnDelete:CASCADE"`
	DayHours   []DayHours       `gorm:"constraint:OnDelete:CASCADE"`
	Feedback   []ReportFeedback `gorm:"constraint:OnDelete:CASCADE"`
}

// Editable reports whether the trainee may still change the report's content.
func (r *Report) Editable() bool {
	return r.Status == StatusDraft || r.Status == StatusNeedsCorrection
}

// Terminal reports whether the review reached a final decision.
func (r *Report) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// WeekStart derives the first day of the report's week. This mirrors the
// simplified Jan-1-plus-offset arithmetic of the stored week numbers and is
// intentionally not ISO 8601; existing reports depend on it.
func (r *Report) WeekStart() time.Time {
	jan1 := time.Date(r.WeekYear, time.January, 1, 0, 0, 0, 0, time.Local)
	return jan1.AddDate(0, 0, (r.WeekNumber-1)*7)
}
