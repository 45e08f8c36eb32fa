package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	godocx "github.com/fumiama/go-docx"
)

// Half-point font sizes used for generated documents.
const (
	docxTitleSize   = "40" // 20pt
	docxHeadingSize = "24" // 12pt
	docxBodySize    = "20" // 10pt
)

// headingPattern matches all-caps heading lines such as "MONTAG",
// "ZUSAMMENFASSUNG:" or "FREITAG (7.5h)": the leading word must be fully
// upper-case, an optional parenthesized suffix is ignored.
var headingPattern = regexp.MustCompile(`^[A-ZÄÖÜẞ][A-ZÄÖÜẞ0-9 .:/-]*(\([^)]*\))?$`)

// RenderTextTemplateDocx substitutes the bound data into a plain-text
// template and emits the result as a styled DOCX: the first non-empty line
// becomes the title, all-caps lines become headings, bullet lines become
// indented bullets and everything else body text.
func RenderTextTemplateDocx(t *PlainTextTemplate, data TemplateData) ([]byte, error) {
	doc := godocx.New().WithDefaultTheme()

	filled := data.Substitute(t.Body)
	titleDone := false
	for _, line := range strings.Split(filled, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			doc.AddParagraph()
		case !titleDone:
			para := doc.AddParagraph().Justification("center")
			para.AddText(trimmed).Size(docxTitleSize).Bold()
			titleDone = true
		case isHeadingLine(trimmed):
			doc.AddParagraph().AddText(trimmed).Size(docxHeadingSize).Bold()
		case strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "- "):
			item := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(trimmed, "• "), "- "))
			doc.AddParagraph().AddText("• " + item).Size(docxBodySize)
		default:
			addLabelledLine(doc, trimmed)
		}
	}

	return writeDocx(doc)
}

// RenderWordTemplateDocx synthesizes a fresh document from the bound data.
// The uploaded template's own structure and styling are not preserved; the
// generated document always follows the standard block layout.
func RenderWordTemplateDocx(t *WordTemplate, data TemplateData) ([]byte, error) {
	doc := godocx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText("Wochenbericht").Size(docxTitleSize).Bold()

	doc.AddParagraph().AddText(fmt.Sprintf("Kalenderwoche %d/%d", data.WeekNumber, data.WeekYear)).Size(docxHeadingSize)
	doc.AddParagraph()

	addLabelled(doc, "Name", data.UserName)
	if data.UserCompany != "" {
		addLabelled(doc, "Unternehmen", data.UserCompany)
	}
	addLabelled(doc, "Erstellt am", data.CurrentDate)
	addLabelled(doc, "Zeitraum", data.WeekDateRange)
	doc.AddParagraph()

	for i, name := range weekdayNames {
		day := data.Day(i + 1)

		heading := doc.AddParagraph()
		heading.AddText(strings.ToUpper(name)).Size(docxHeadingSize).Bold()
		heading.AddText(fmt.Sprintf("  (%sh)", formatHours(day.Hours))).Size(docxBodySize)

		if len(day.Activities) == 0 {
			doc.AddParagraph().AddText("Keine Tätigkeiten").Size(docxBodySize).Italic()
		}
		for _, text := range day.Activities {
			doc.AddParagraph().AddText("• " + text).Size(docxBodySize)
		}
		doc.AddParagraph()
	}

	doc.AddParagraph().AddText("ZUSAMMENFASSUNG").Size(docxHeadingSize).Bold()
	addLabelled(doc, "Gesamtstunden der Woche", formatHours(data.TotalHours)+"h")
	addLabelled(doc, "Durchschnitt pro Tag", formatHours(data.AvgHoursPerDay)+"h")
	doc.AddParagraph()

	addLabelled(doc, "Unterschrift Azubi", printableSignature(data.AzubiSignature))
	addLabelled(doc, "Unterschrift Ausbilder", printableSignature(data.AusbilderSignature))

	return writeDocx(doc)
}

func isHeadingLine(line string) bool {
	if len(line) < 2 || !headingPattern.MatchString(line) {
		return false
	}
	// Only the part before a parenthesized suffix must be fully upper-case.
	head := line
	if idx := strings.Index(line, "("); idx >= 0 {
		head = strings.TrimSpace(line[:idx])
	}
	return head != "" && head == strings.ToUpper(head)
}

// addLabelledLine renders "Label: value" lines with a bold label, other lines
// as plain body text.
func addLabelledLine(doc *godocx.Docx, line string) {
	if idx := strings.Index(line, ": "); idx > 0 && idx < 40 {
		para := doc.AddParagraph()
		para.AddText(line[:idx+1]).Size(docxBodySize).Bold()
		para.AddText(" " + strings.TrimSpace(line[idx+1:])).Size(docxBodySize)
		return
	}
	doc.AddParagraph().AddText(line).Size(docxBodySize)
}

func addLabelled(doc *godocx.Docx, label, value string) {
	para := doc.AddParagraph()
	para.AddText(label + ":").Size(docxBodySize).Bold()
	para.AddText(" " + value).Size(docxBodySize)
}

func writeDocx(doc *godocx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
