package export

import (
	"bytes"
	"fmt"

	"github.com/berichtsheft/internal/db"
	"github.com/go-pdf/fpdf"
)

// pdfBreakY is the y position past which the direct layout starts a new page.
const pdfBreakY = 270

// RenderDirectPDF lays out a report straight from its stored data, with no
// template involved. This is the primary template-free path and the fallback
// for every failed template export.
func RenderDirectPDF(report *db.Report, activities []db.Activity, dayHours []db.DayHours, user *db.User) ([]byte, error) {
	return renderDirectPDF("Wochenbericht", report, activities, dayHours, user)
}

// RenderTemplatePDF represents a filled template as a flat PDF. The layout is
// re-derived from the report data rather than from the rendered document.
func RenderTemplatePDF(report *db.Report, activities []db.Activity, dayHours []db.DayHours, user *db.User) ([]byte, error) {
	return renderDirectPDF("Wochenbericht aus Word-Vorlage", report, activities, dayHours, user)
}

func renderDirectPDF(title string, report *db.Report, activities []db.Activity, dayHours []db.DayHours, user *db.User) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 30, tr(title))

	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(20, 50, tr(fmt.Sprintf("Kalenderwoche %d/%d", report.WeekNumber, report.WeekYear)))

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, 70, tr(fmt.Sprintf("Name: %s", user.DisplayName())))
	y := 80.0
	if user.Company != "" {
		pdf.Text(20, y, tr(fmt.Sprintf("Unternehmen: %s", user.Company)))
		y += 10
	}
	pdf.Text(20, y, tr(fmt.Sprintf("Erstellt am: %s", report.CreatedAt.Format("02.01.2006"))))
	y += 10

	weekStart := report.WeekStart()
	weekEnd := weekStart.AddDate(0, 0, 6)
	pdf.Text(20, y, tr(fmt.Sprintf("Zeitraum: %s - %s", weekStart.Format("02.01."), weekEnd.Format("02.01.2006"))))

	currentY := y + 20

	activitiesByDay := make(map[int][]db.Activity)
	for _, activity := range activities {
		activitiesByDay[activity.DayOfWeek] = append(activitiesByDay[activity.DayOfWeek], activity)
	}
	hoursByDay := make(map[int]float64)
	for _, entry := range dayHours {
		hoursByDay[entry.DayOfWeek] += entry.Total()
	}

	for dayOfWeek := 1; dayOfWeek <= 5; dayOfWeek++ {
		dayActivities := activitiesByDay[dayOfWeek]

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(20, currentY, tr(weekdayNames[dayOfWeek-1]))
		if hours, ok := hoursByDay[dayOfWeek]; ok {
			pdf.Text(150, currentY, tr(fmt.Sprintf("%sh", formatHours(round1(hours)))))
		}
		currentY += 15

		if len(dayActivities) == 0 {
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(30, currentY, tr("Keine Tätigkeiten"))
			currentY += 20
			continue
		}

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
	for _, hours := range hoursByDay {
		totalHours += hours
	}
	avgHoursPerDay := totalHours / 5

	if currentY > pdfBreakY-40 {
		pdf.AddPage()
		currentY = 20
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, currentY+10, tr("Zusammenfassung:"))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, currentY+25, tr(fmt.Sprintf("Gesamtstunden der Woche: %sh", formatHours(round1(totalHours)))))
	pdf.Text(20, currentY+35, tr(fmt.Sprintf("Durchschnitt pro Tag: %sh", formatHours(round1(avgHoursPerDay)))))

	signatureY := currentY + 55
	pdf.Text(20, signatureY, tr(signatureLine("Unterschrift Azubi", report.AzubiSignature)))
	pdf.Text(20, signatureY+10, tr(signatureLine("Unterschrift Ausbilder", report.AusbilderSignature)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func signatureLine(label, signature string) string {
	return fmt.Sprintf("%s: %s", label, printableSignature(signature))
}
