package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/berichtsheft/internal/db"
)

// weekdayKeys are the canonical parameter names of the five workdays, indexed
// by day-of-week minus one.
var weekdayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// weekdayNames are the printed German day names, indexed the same way.
var weekdayNames = []string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag"}

// DaySummary is one workday's bound data.
type DaySummary struct {
	Activities []string
	Hours      float64
}

// TemplateData is the flat/nested parameter map fed into the renderers.
type TemplateData struct {
	UserName      string
	UserCompany   string
	CurrentDate   string
	WeekNumber    int
	WeekYear      int
	WeekDateRange string

	Monday    DaySummary
	Tuesday   DaySummary
	Wednesday DaySummary
	Thursday  DaySummary
	Friday    DaySummary

	TotalHours     float64
	AvgHoursPerDay float64

	AzubiSignature     string
	AusbilderSignature string
}

// Day returns the summary of a workday by its 1-based day-of-week.
func (d *TemplateData) Day(dayOfWeek int) DaySummary {
	switch dayOfWeek {
	case 1:
		return d.Monday
	case 2:
		return d.Tuesday
	case 3:
		return d.Wednesday
	case 4:
		return d.Thursday
	case 5:
		return d.Friday
	}
	return DaySummary{}
}

// BindTemplateData computes the parameter map of one report. It is a pure
// function: identical inputs always produce the identical map.
func BindTemplateData(report *db.Report, activities []db.Activity, dayHours []db.DayHours, user *db.User) TemplateData {
	activitiesByDay := make(map[int][]string)
	for _, activity := range activities {
		activitiesByDay[activity.DayOfWeek] = append(activitiesByDay[activity.DayOfWeek], activity.ActivityText)
	}

	// Duplicate rows per day are summed defensively even though the store
	// keeps at most one.
	hoursByDay := make(map[int]float64)
	for _, entry := range dayHours {
		hoursByDay[entry.DayOfWeek] += entry.Total()
	}

	weekStart := report.WeekStart()
	weekEnd := weekStart.AddDate(0, 0, 6)
	weekDateRange := weekStart.Format("02.01.") + " - " + weekEnd.Format("02.01.2006")

	dayFor := func(dayOfWeek int) DaySummary {
		texts := activitiesByDay[dayOfWeek]
		if texts == nil {
			texts = []string{}
		}
		return DaySummary{
			Activities: texts,
			Hours:      round1(hoursByDay[dayOfWeek]),
		}
	}

	var totalHours float64
	for _, hours := range hoursByDay {
		totalHours += hours
	}

	return TemplateData{
		UserName:           user.DisplayName(),
		UserCompany:        user.Company,
		CurrentDate:        report.CreatedAt.Format("02.01.2006"),
		WeekNumber:         report.WeekNumber,
		WeekYear:           report.WeekYear,
		WeekDateRange:      weekDateRange,
		Monday:             dayFor(1),
		Tuesday:            dayFor(2),
		Wednesday:          dayFor(3),
		Thursday:           dayFor(4),
		Friday:             dayFor(5),
		TotalHours:         round1(totalHours),
		AvgHoursPerDay:     round1(totalHours / 5),
		AzubiSignature:     report.AzubiSignature,
		AusbilderSignature: report.AusbilderSignature,
	}
}

// Substitute replaces {name} and {name.nested} placeholders in a plain-text
// template body. Scalars insert as-is, lists insert bullet-joined.
func (d *TemplateData) Substitute(body string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		key := strings.Trim(match, "{}")
		if value, ok := d.lookup(key); ok {
			return value
		}
		return match
	})
}

func (d *TemplateData) lookup(key string) (string, bool) {
	switch key {
	case "userName":
		return d.UserName, true
	case "userCompany":
		return d.UserCompany, true
	case "currentDate":
		return d.CurrentDate, true
	case "weekNumber":
		return strconv.Itoa(d.WeekNumber), true
	case "weekYear":
		return strconv.Itoa(d.WeekYear), true
	case "weekDateRange":
		return d.WeekDateRange, true
	case "totalHours":
		return formatHours(d.TotalHours), true
	case "avgHoursPerDay":
		return formatHours(d.AvgHoursPerDay), true
	case "azubiSignature":
		return d.AzubiSignature, true
	case "ausbilderSignature":
		return d.AusbilderSignature, true
	}

	for i, dayKey := range weekdayKeys {
		day := d.Day(i + 1)
		switch key {
		case dayKey:
			return joinBullets(day.Activities), true
		case dayKey + ".activities":
			return joinBullets(day.Activities), true
		case dayKey + ".hours":
			return formatHours(day.Hours), true
		}
	}
	return "", false
}

func joinBullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(item)
	}
	return b.String()
}

// round1 rounds to one decimal, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatHours prints without a trailing zero fraction: 38 not 38.0, 7.6 as is.
func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// printableSignature keeps typed signatures as text. Uploaded image blobs are
// not printable inline and collapse to a note; a missing signature prints as
// a blank line to sign on paper.
func printableSignature(signature string) string {
	switch {
	case signature == "":
		return "____________________"
	case strings.HasPrefix(signature, "data:"):
		return "(digital unterschrieben)"
	default:
		return signature
	}
}
