package export

import (
	"fmt"

	"github.com/berichtsheft/internal/db"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// logbookActivityRows pads every day table to this many activity lines so the
// printed sheet can be completed by hand.
const logbookActivityRows = 5

var dayHeaderFill = color.Color{Red: 217, Green: 232, Blue: 251}

// RenderLogbookPDF produces the table-styled "Berichtsheft" sheet, a visually
// distinct alternative to the direct layout.
func RenderLogbookPDF(report *db.Report, activities []db.Activity, dayHours []db.DayHours, user *db.User) ([]byte, error) {
	data := BindTemplateData(report, activities, dayHours, user)

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(10, 15, 10)

	m.Row(14, func() {
		m.Col(12, func() {
			m.Text("Berichtsheft – Wochenübersicht", props.Text{
				Size:  16,
				Style: consts.Bold,
				Align: consts.Center,
			})
		})
	})

	name := data.UserName
	if name == "" {
		name = "_________________"
	}
	company := data.UserCompany
	if company == "" {
		company = "_________________"
	}

	m.Row(6, func() {
		labelledCells(m, "Name:", name, "Ausbildungsberuf:", "_________________")
	})
	m.Row(6, func() {
		labelledCells(m, "Ausbildungsjahr:", "____", "Betrieb:", company)
	})
	m.Row(6, func() {
		labelledCells(m, "Woche vom:", data.WeekDateRange, "KW:", fmt.Sprintf("%d/%d", data.WeekNumber, data.WeekYear))
	})
	m.Row(4, func() {})

	weekStart := report.WeekStart()
	for i, dayName := range weekdayNames {
		day := data.Day(i + 1)
		dayDate := weekStart.AddDate(0, 0, i).Format("02.01.2006")

		m.SetBackgroundColor(dayHeaderFill)
		m.Row(7, func() {
			m.Col(12, func() {
				m.Text(dayName, props.Text{Size: 10, Style: consts.Bold, Top: 1.5, Left: 2})
			})
		})
		m.SetBackgroundColor(color.NewWhite())

		m.Row(6, func() {
			labelledCells(m, "Datum:", dayDate, "Stunden:", formatHours(day.Hours)+"h")
		})

		for row := 0; row < logbookActivityRows || row < len(day.Activities); row++ {
			text := ""
			if row < len(day.Activities) {
				text = day.Activities[row]
			}
			label := fmt.Sprintf("Tätigkeit %d:", row+1)
			m.Row(6, func() {
				m.Col(3, func() {
					m.Text(label, props.Text{Size: 9, Top: 1.5})
				})
				m.Col(9, func() {
					m.Text(text, props.Text{Size: 9, Top: 1.5})
				})
			})
		}
		m.Line(1.0)
	}

	m.Row(4, func() {})
	m.Row(6, func() {
		labelledCells(m, "Gesamtstunden der Woche:", formatHours(data.TotalHours)+"h",
			"Durchschnitt pro Tag:", formatHours(data.AvgHoursPerDay)+"h")
	})

	m.Row(10, func() {})
	m.Row(6, func() {
		m.Col(6, func() {
			m.Text("Unterschrift Azubi: "+printableSignature(data.AzubiSignature), props.Text{Size: 10})
		})
		m.Col(6, func() {
			m.Text("Unterschrift Ausbilder: "+printableSignature(data.AusbilderSignature), props.Text{Size: 10})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("write logbook pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// labelledCells lays out two "label value" pairs across the page.
func labelledCells(m pdf.Maroto, label1, value1, label2, value2 string) {
	m.Col(3, func() {
		m.Text(label1, props.Text{Size: 9, Style: consts.Bold, Top: 1.5})
	})
	m.Col(3, func() {
		m.Text(value1, props.Text{Size: 9, Top: 1.5})
	})
	m.Col(3, func() {
		m.Text(label2, props.Text{Size: 9, Style: consts.Bold, Top: 1.5})
	})
	m.Col(3, func() {
		m.Text(value2, props.Text{Size: 9, Top: 1.5})
	})
}
