package db

import "gorm.io/gorm"

// Feedback kinds. Appending feedback of a kind drives the report's status
// transition, see service.ReportService.AddFeedback.
const (
	FeedbackCorrection = "correction"
	FeedbackApproval   = "approval"
	FeedbackRejection  = "rejection"
)

// FieldCorrection points a correction request at a single report field,
// e.g. {"Dienstag", "Bitte Tätigkeiten ausführlicher beschreiben"}.
type FieldCorrection struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ReportFeedback is an append-only trainer annotation on a report.
type ReportFeedback struct {
	gorm.Model
	ReportID         uint              `gorm:"not null;index"`
	FeedbackType     string            `gorm:"not null"`
	Message          string            `gorm:"not null"`
	FieldCorrections []FieldCorrection `gorm:"serializer:json"`
	CreatedBy        uint              `gorm:"not null"`
	Author           User              `gorm:"foreignKey:CreatedBy"`
}
