package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/berichtsheft/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrReportNotEditable  = errors.New("report is not editable in its current status")
	ErrReportFinalized    = errors.New("report review is already finalized")
	ErrFeedbackNotAllowed = errors.New("feedback requires the ausbilder role and a submitted report")
	ErrFeedbackEmpty      = errors.New("feedback message must not be empty")
	ErrInvalidDayOfWeek   = errors.New("day of week must be between 1 and 7")
	ErrInvalidWorkTime    = errors.New("hours must be between 0 and 24 and minutes between 0 and 59")
)

// ReportService owns the weekly report lifecycle: lazy creation per calendar
// week, draft edits, submission and the feedback driven review transitions.
type ReportService struct {
	db *gorm.DB
}

// ActivityInput is one activity row as sent by the editor.
type ActivityInput struct {
	DayOfWeek int
	Text      string
}

// DayHoursInput is the worked time of one weekday.
type DayHoursInput struct {
	DayOfWeek int
	Hours     int
	Minutes   int
}

// FeedbackInput describes a trainer annotation to append.
type FeedbackInput struct {
	Kind             string
	Message          string
	FieldCorrections []db.FieldCorrection
}

// NewReportService creates a ReportService instance.
func NewReportService(gdb *gorm.DB) *ReportService {
	return &ReportService{db: gdb}
}

// Get fetches a report with its children preloaded.
func (s *ReportService) Get(id uint) (*db.Report, error) {
	var report db.Report
	err := s.db.Preload("User").
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("day_of_week asc, id asc")
		}).
		Preload("DayHours", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("day_of_week asc")
		}).
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

// GetOrCreate returns the report of the given (owner, week) pair, creating it
// lazily as a draft on first access. Calling it twice for the same week yields
// the same report.
func (s *ReportService) GetOrCreate(ownerID uint, weekYear, weekNumber int) (*db.Report, error) {
	var report db.Report
	err := s.db.Where("user_id = ? AND week_year = ? AND week_number = ?", ownerID, weekYear, weekNumber).
		First(&report).Error
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup report by week: %w", err)
	}

	report = db.Report{
		UserID:     ownerID,
		WeekYear:   weekYear,
		WeekNumber: weekNumber,
		Status:     db.StatusDraft,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &report, nil
}

// ListByOwner returns all reports of one trainee, newest week first.
func (s *ReportService) ListByOwner(ownerID uint) ([]db.Report, error) {
	var reports []db.Report
	if err := s.db.Where("user_id = ?", ownerID).
		Order("week_year desc, week_number desc").
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListForReview returns the trainer inbox: every report currently waiting for
// a review decision, oldest submission first.
func (s *ReportService) ListForReview() ([]db.Report, error) {
	var reports []db.Report
	if err := s.db.Preload("User").
		Where("status IN ?", []string{db.StatusSubmitted, db.StatusNeedsCorrection}).
		Order("submitted_at asc, id asc").
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports for review: %w", err)
	}
	return reports, nil
}

// ListApproved returns one trainee's approved reports with their children
// preloaded, oldest week first, ready for the combined booklet export.
func (s *ReportService) ListApproved(ownerID uint) ([]db.Report, error) {
	var reports []db.Report
	err := s.db.
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("day_of_week asc, id asc")
		}).
		Preload("DayHours", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("day_of_week asc")
		}).
		Where("user_id = ? AND status = ?", ownerID, db.StatusApproved).
		Order("week_year asc, week_number asc").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("list approved reports: %w", err)
	}
	return reports, nil
}

// SaveWeek replaces the report's activities with the given set and upserts the
// day hour entries, all inside one transaction. Editing is only allowed while
// the report is a draft or sent back for correction.
func (s *ReportService) SaveWeek(reportID uint, activities []ActivityInput, hours []DayHoursInput) (*db.Report, error) {
	report, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}
	if !report.Editable() {
		return nil, ErrReportNotEditable
	}

	weekStart := report.WeekStart()

	rows := make([]db.Activity, 0, len(activities))
	for _, input := range activities {
		if input.DayOfWeek < 1 || input.DayOfWeek > 7 {
			return nil, ErrInvalidDayOfWeek
		}
		text := strings.TrimSpace(input.Text)
		if text == "" {
			continue
		}
		rows = append(rows, db.Activity{
			ReportID:     report.ID,
			DayOfWeek:    input.DayOfWeek,
			Date:         weekStart.AddDate(0, 0, input.DayOfWeek-1),
			ActivityText: text,
		})
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		// Saves are full-replace: drop the existing set, insert the new one.
		if err := tx.Where("report_id = ?", report.ID).Delete(&db.Activity{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		for _, input := range hours {
			if input.DayOfWeek < 1 || input.DayOfWeek > 7 {
				return ErrInvalidDayOfWeek
			}
			if input.Hours < 0 || input.Hours > 24 || input.Minutes < 0 || input.Minutes > 59 {
				return ErrInvalidWorkTime
			}
			entry := db.DayHours{
				ReportID:  report.ID,
				DayOfWeek: input.DayOfWeek,
				Date:      weekStart.AddDate(0, 0, input.DayOfWeek-1),
				Hours:     input.Hours,
				Minutes:   input.Minutes,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "report_id"}, {Name: "day_of_week"}},
				DoUpdates: clause.AssignmentColumns([]string{"hours", "minutes", "date", "updated_at"}),
			}).Create(&entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&db.Report{}).Where("id = ?", report.ID).
			Update("updated_at", time.Now()).Error
	}); err != nil {
		return nil, fmt.Errorf("save week: %w", err)
	}

	return s.Get(report.ID)
}

// Submit moves a draft (or a report sent back for correction) to submitted and
// stamps the submission time. Submitting an already submitted report is a
// no-op; finalized reports reject the call.
func (s *ReportService) Submit(reportID uint) (*db.Report, error) {
	report, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}

	switch report.Status {
	case db.StatusSubmitted:
		return report, nil
	case db.StatusApproved, db.StatusRejected:
		return nil, ErrReportFinalized
	}

	now := time.Now()
	if err := s.db.Model(&db.Report{}).Where("id = ?", report.ID).Updates(map[string]interface{}{
		"status":       db.StatusSubmitted,
		"submitted_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	return s.Get(report.ID)
}

// SignAzubi attaches the trainee's signature string to the report.
func (s *ReportService) SignAzubi(reportID uint, signature string) (*db.Report, error) {
	report, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(signature)
	if trimmed == "" {
		return report, nil
	}

	if err := s.db.Model(&db.Report{}).Where("id = ?", report.ID).
		Update("azubi_signature", trimmed).Error; err != nil {
		return nil, fmt.Errorf("sign report: %w", err)
	}
	return s.Get(report.ID)
}

// AddFeedback appends a trainer annotation and performs the status transition
// its kind implies. Only an Ausbilder may give feedback, and only while the
// report is submitted or already sent back for correction. The feedback row
// and the report update are written in one transaction.
func (s *ReportService) AddFeedback(reportID uint, input FeedbackInput, author *db.User) (*db.ReportFeedback, error) {
	if author == nil || !author.IsAusbilder() {
		return nil, ErrFeedbackNotAllowed
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrFeedbackEmpty
	}

	report, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != db.StatusSubmitted && report.Status != db.StatusNeedsCorrection {
		return nil, ErrFeedbackNotAllowed
	}

	now := time.Now()
	updates := map[string]interface{}{}

	switch input.Kind {
	case db.FeedbackCorrection:
		updates["status"] = db.StatusNeedsCorrection
		updates["correction_requested_at"] = now
	case db.FeedbackApproval:
		updates["status"] = db.StatusApproved
		updates["approved_at"] = now
		updates["approved_by"] = author.ID
		updates["ausbilder_signature"] = trainerSignature(author)
		updates["signed_at"] = now
	case db.FeedbackRejection:
		updates["status"] = db.StatusRejected
		updates["rejected_at"] = now
	default:
		return nil, fmt.Errorf("unknown feedback kind %q", input.Kind)
	}

	feedback := db.ReportFeedback{
		ReportID:         report.ID,
		FeedbackType:     input.Kind,
		Message:          message,
		FieldCorrections: input.FieldCorrections,
		CreatedBy:        author.ID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&feedback).Error; err != nil {
			return err
		}
		return tx.Model(&db.Report{}).Where("id = ?", report.ID).Updates(updates).Error
	}); err != nil {
		return nil, fmt.Errorf("add feedback: %w", err)
	}

	if err := s.db.Preload("Author").First(&feedback, feedback.ID).Error; err != nil {
		return nil, fmt.Errorf("reload feedback: %w", err)
	}
	return &feedback, nil
}

// ListFeedback returns a report's feedback, newest first.
func (s *ReportService) ListFeedback(reportID uint) ([]db.ReportFeedback, error) {
	var feedback []db.ReportFeedback
	if err := s.db.Preload("Author").
		Where("report_id = ?", reportID).
		Order("created_at desc, id desc").
		Find(&feedback).Error; err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return feedback, nil
}

// trainerSignature prefers the stored signature image and falls back to a
// name synthesized from first and last name.
func trainerSignature(author *db.User) string {
	if sig := strings.TrimSpace(author.SignatureImage); sig != "" {
		return sig
	}
	return strings.TrimSpace(author.FirstName + " " + author.LastName)
}
