package handler

import (
	"errors"
	"net/http"

	"github.com/berichtsheft/internal/db"
	"github.com/berichtsheft/internal/service"
	"github.com/gin-gonic/gin"
)

// ListReports returns the signed-in trainee's reports, newest week first.
func (a *API) ListReports(c *gin.Context) {
	user := currentUser(c)

	reports, err := a.reports.ListByOwner(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Berichte konnten nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ListReportsForReview returns the trainer inbox of reports waiting for a
// decision.
func (a *API) ListReportsForReview(c *gin.Context) {
	reports, err := a.reports.ListForReview()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Berichte konnten nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReportByWeek returns the signed-in user's report of a week, creating it
// lazily as a draft on first access.
func (a *API) GetReportByWeek(c *gin.Context) {
	user := currentUser(c)

	year, err := parseIntParam(c, "year")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	week, err := parseIntParam(c, "week")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if week < 1 || week > 53 {
		respondError(c, http.StatusBadRequest, "Ungültige Kalenderwoche")
		return
	}

	report, err := a.reports.GetOrCreate(user.ID, year, week)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Bericht konnte nicht angelegt werden")
		return
	}

	full, err := a.reports.Get(report.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Bericht konnte nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": full})
}

// GetReport returns one report with its children. Trainees only see their
// own reports; trainers see everything.
func (a *API) GetReport(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// SaveReport applies a week edit: full replace of the activities plus upsert
// of the day hours.
func (a *API) SaveReport(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	user := currentUser(c)
	if report.UserID != user.ID {
		respondError(c, http.StatusForbidden, "Nur eigene Berichte können bearbeitet werden")
		return
	}

	var input struct {
		Activities []struct {
			DayOfWeek int    `json:"day_of_week"`
			Text      string `json:"text"`
		} `json:"activities"`
		DayHours []struct {
			DayOfWeek int `json:"day_of_week"`
			Hours     int `json:"hours"`
			Minutes   int `json:"minutes"`
		} `json:"day_hours"`
	}
	if !bindJSON(c, &input, "Ungültige Berichtsdaten") {
		return
	}

	activities := make([]service.ActivityInput, 0, len(input.Activities))
	for _, row := range input.Activities {
		activities = append(activities, service.ActivityInput{DayOfWeek: row.DayOfWeek, Text: row.Text})
	}
	hours := make([]service.DayHoursInput, 0, len(input.DayHours))
	for _, row := range input.DayHours {
		hours = append(hours, service.DayHoursInput{DayOfWeek: row.DayOfWeek, Hours: row.Hours, Minutes: row.Minutes})
	}

	updated, err := a.reports.SaveWeek(report.ID, activities, hours)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotEditable):
			respondError(c, http.StatusConflict, "Bericht ist in diesem Status nicht bearbeitbar")
		case errors.Is(err, service.ErrInvalidDayOfWeek):
			respondError(c, http.StatusBadRequest, "Wochentag muss zwischen 1 und 7 liegen")
		case errors.Is(err, service.ErrInvalidWorkTime):
			respondError(c, http.StatusBadRequest, "Ungültige Arbeitszeit")
		default:
			respondError(c, http.StatusInternalServerError, "Bericht konnte nicht gespeichert werden")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": updated})
}

// SubmitReport hands a draft to the trainer for review.
func (a *API) SubmitReport(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	user := currentUser(c)
	if report.UserID != user.ID {
		respondError(c, http.StatusForbidden, "Nur eigene Berichte können eingereicht werden")
		return
	}

	updated, err := a.reports.Submit(report.ID)
	if err != nil {
		if errors.Is(err, service.ErrReportFinalized) {
			respondError(c, http.StatusConflict, "Bericht ist bereits abschließend geprüft")
			return
		}
		respondError(c, http.StatusInternalServerError, "Bericht konnte nicht eingereicht werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": updated})
}

// SignReport attaches the trainee's signature to their own report.
func (a *API) SignReport(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	user := currentUser(c)
	if report.UserID != user.ID {
		respondError(c, http.StatusForbidden, "Nur eigene Berichte können unterschrieben werden")
		return
	}

	var input struct {
		Signature string `json:"signature" binding:"required"`
	}
	if !bindJSON(c, &input, "Ungültige Unterschrift") {
		return
	}

	updated, err := a.reports.SignAzubi(report.ID, input.Signature)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Unterschrift konnte nicht gespeichert werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": updated})
}

// AddFeedback appends a trainer annotation; its kind drives the report's
// status transition.
func (a *API) AddFeedback(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	var input struct {
		FeedbackType     string `json:"feedback_type" binding:"required"`
		Message          string `json:"message" binding:"required"`
		FieldCorrections []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"field_corrections"`
	}
	if !bindJSON(c, &input, "Ungültiges Feedback") {
		return
	}

	corrections := make([]db.FieldCorrection, 0, len(input.FieldCorrections))
	for _, row := range input.FieldCorrections {
		corrections = append(corrections, db.FieldCorrection{Field: row.Field, Message: row.Message})
	}

	feedback, err := a.reports.AddFeedback(report.ID, service.FeedbackInput{
		Kind:             input.FeedbackType,
		Message:          input.Message,
		FieldCorrections: corrections,
	}, currentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackNotAllowed):
			respondError(c, http.StatusForbidden, "Feedback ist in diesem Status nicht möglich")
		case errors.Is(err, service.ErrFeedbackEmpty):
			respondError(c, http.StatusBadRequest, "Feedback-Nachricht darf nicht leer sein")
		default:
			respondError(c, http.StatusInternalServerError, "Feedback konnte nicht gespeichert werden")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// ListFeedback returns a report's feedback, newest first.
func (a *API) ListFeedback(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	feedback, err := a.reports.ListFeedback(report.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Feedback konnte nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// ListPredefinedActivities serves the quick-fill catalog.
func (a *API) ListPredefinedActivities(c *gin.Context) {
	entries, err := a.catalog.List(c.Query("category"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Katalog konnte nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"predefined_activities": entries})
}

// ListActivityCategories returns the distinct catalog categories for the
// quick-fill filter.
func (a *API) ListActivityCategories(c *gin.Context) {
	categories, err := a.catalog.Categories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Kategorien konnten nicht geladen werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// loadReport resolves the :id route param into a report visible to the
// signed-in user. It writes the error response itself and returns nil when
// the caller should stop.
func (a *API) loadReport(c *gin.Context) *db.Report {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return nil
	}

	report, err := a.reports.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			respondError(c, http.StatusNotFound, "Bericht nicht gefunden")
			return nil
		}
		respondError(c, http.StatusInternalServerError, "Bericht konnte nicht geladen werden")
		return nil
	}

	user := currentUser(c)
	if report.UserID != user.ID && !user.IsAusbilder() {
		respondError(c, http.StatusForbidden, "Kein Zugriff auf diesen Bericht")
		return nil
	}
	return report
}
