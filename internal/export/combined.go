package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/berichtsheft/internal/db"
	"github.com/go-pdf/fpdf"
)

// RenderCombinedPDF lays out one booklet over all given reports: a title page
// with an overview table, then one section per week. The reports must carry
// their Activities and DayHours preloaded.
func RenderCombinedPDF(reports []db.Report, user *db.User) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(20, 40, tr("Ausbildungsnachweise"))

	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(20, 60, tr(user.DisplayName()))
	if user.Company != "" {
		pdf.Text(20, 75, tr(user.Company))
	}
	pdf.Text(20, 90, tr(fmt.Sprintf("Erstellt am: %s", time.Now().Format("02.01.2006"))))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, 120, tr("Übersicht der Wochenberichte:"))

	currentY := 135.0
	pdf.SetFont("Helvetica", "", 10)
	for _, report := range reports {
		var totalHours float64
		for _, entry := range report.DayHours {
			totalHours += entry.Total()
		}
		pdf.Text(20, currentY, tr(fmt.Sprintf("KW %d/%d", report.WeekNumber, report.WeekYear)))
		pdf.Text(100, currentY, tr(fmt.Sprintf("%sh", formatHours(round1(totalHours)))))
		pdf.Text(130, currentY, tr(statusLabel(report.Status)))
		currentY += 10

		if currentY > pdfBreakY {
			pdf.AddPage()
			currentY = 20
		}
	}

	for _, report := range reports {
		writeReportSection(pdf, tr, &report, user)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write combined pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeReportSection appends one week on a fresh page.
func writeReportSection(pdf *fpdf.Fpdf, tr func(string) string, report *db.Report, user *db.User) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 30, tr("Ausbildungsnachweis"))

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, 45, tr(fmt.Sprintf("Kalenderwoche %d/%d", report.WeekNumber, report.WeekYear)))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 60, tr(fmt.Sprintf("Auszubildende/r: %s", user.DisplayName())))
	if user.Company != "" {
		pdf.Text(20, 70, tr(fmt.Sprintf("Unternehmen: %s", user.Company)))
	}

	activitiesByDay := make(map[int][]db.Activity)
	for _, activity := range report.Activities {
		activitiesByDay[activity.DayOfWeek] = append(activitiesByDay[activity.DayOfWeek], activity)
	}
	entriesByDay := make(map[int]db.DayHours)
	for _, entry := range report.DayHours {
		entriesByDay[entry.DayOfWeek] = entry
	}

	currentY := 100.0
	for dayOfWeek := 1; dayOfWeek <= 5; dayOfWeek++ {
		dayActivities := activitiesByDay[dayOfWeek]

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(20, currentY, tr(weekdayNames[dayOfWeek-1]))
		if entry, ok := entriesByDay[dayOfWeek]; ok && entry.Hours*60+entry.Minutes > 0 {
			pdf.Text(150, currentY, tr(fmt.Sprintf("%dh %dmin", entry.Hours, entry.Minutes)))
		}

		if len(dayActivities) == 0 {
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(30, currentY+10, tr("Keine Tätigkeiten"))
			currentY += 25
			continue
		}
		currentY += 15

		pdf.SetFont("Helvetica", "", 10)
		for _, activity := range dayActivities {
			lines := pdf.SplitText(activity.ActivityText, 140)
			for _, line := range lines {
				pdf.Text(30, currentY, tr(line))
				currentY += 5
			}
			currentY += 5

			if currentY > pdfBreakY {
				pdf.AddPage()
				currentY = 20
			}
		}
		currentY += 10
	}

	var totalHours float64
	for _, entry := range report.DayHours {
		totalHours += entry.Total()
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, currentY+10, tr(fmt.Sprintf("Gesamtstunden: %sh", formatHours(round1(totalHours)))))
}

func statusLabel(status string) string {
	if status == db.StatusApproved {
		return "Genehmigt"
	}
	return status
}
