package export

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/berichtsheft/internal/db"
)

// Output formats and styles accepted by the exporter.
const (
	FormatPDF  = "pdf"
	FormatDocx = "docx"

	StyleStandard = "standard"
	StyleLogbook  = "berichtsheft"
)

// MIME types of the produced documents.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat rejects export requests for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrNothingToExport rejects a combined export without any reports.
var ErrNothingToExport = errors.New("no reports to export")

// ExportRequest is one export invocation: a report with its children plus the
// requested output shape.
type ExportRequest struct {
	Report     *db.Report
	Activities []db.Activity
	DayHours   []db.DayHours
	User       *db.User

	Format      string // pdf | docx
	Style       string // standard | berichtsheft
	TemplateRef string
}

// ExportResult is a downloadable buffer. Degraded marks exports that fell
// back to the direct layout after a template failure; the reason stays
// observable for callers and tests instead of vanishing into a catch-all.
type ExportResult struct {
	Data           []byte
	Filename       string
	ContentType    string
	Degraded       bool
	DegradedReason string
}

// Exporter coordinates template resolution, data binding and rendering.
// A broken template never fails the export: the pipeline degrades to the
// template-free direct layout so the user always receives a document.
type Exporter struct {
	loader Loader
}

// NewExporter creates an Exporter around the given template loader.
func NewExporter(loader Loader) *Exporter {
	return &Exporter{loader: loader}
}

// Export runs the pipeline end to end.
func (e *Exporter) Export(req ExportRequest) (*ExportResult, error) {
	if req.Format != FormatPDF && req.Format != FormatDocx {
		return nil, ErrUnsupportedFormat
	}

	if req.Style == StyleLogbook {
		data, err := RenderLogbookPDF(req.Report, req.Activities, req.DayHours, req.User)
		if err != nil {
			return e.degrade(req, err)
		}
		return &ExportResult{
			Data:        data,
			Filename:    fmt.Sprintf("Berichtsheft_KW%d_%d.pdf", req.Report.WeekNumber, req.Report.WeekYear),
			ContentType: ContentTypePDF,
		}, nil
	}

	if req.TemplateRef == "" {
		if req.Format == FormatDocx {
			// Without a template the DOCX is synthesized from the bound data.
			data := BindTemplateData(req.Report, req.Activities, req.DayHours, req.User)
			buf, err := RenderWordTemplateDocx(&WordTemplate{}, data)
			if err != nil {
				return e.degrade(req, err)
			}
			return &ExportResult{
				Data:        buf,
				Filename:    e.filename(req, "", "docx"),
				ContentType: ContentTypeDocx,
			}, nil
		}

		data, err := RenderDirectPDF(req.Report, req.Activities, req.DayHours, req.User)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportResult{
			Data:        data,
			Filename:    e.filename(req, "", "pdf"),
			ContentType: ContentTypePDF,
		}, nil
	}

	result, err := e.exportWithTemplate(req)
	if err != nil {
		return e.degrade(req, err)
	}
	return result, nil
}

func (e *Exporter) exportWithTemplate(req ExportRequest) (*ExportResult, error) {
	template, err := ResolveTemplate(e.loader, req.TemplateRef)
	if err != nil {
		return nil, err
	}

	data := BindTemplateData(req.Report, req.Activities, req.DayHours, req.User)

	var docxBuf []byte
	switch t := template.(type) {
	case *PlainTextTemplate:
		docxBuf, err = RenderTextTemplateDocx(t, data)
	case *WordTemplate:
		docxBuf, err = RenderWordTemplateDocx(t, data)
	case NoTemplate:
		docxBuf, err = RenderWordTemplateDocx(&WordTemplate{}, data)
	default:
		err = fmt.Errorf("unhandled template variant %T", template)
	}
	if err != nil {
		return nil, err
	}

	if req.Format == FormatDocx {
		return &ExportResult{
			Data:        docxBuf,
			Filename:    e.filename(req, "_Word_Vorlage", "docx"),
			ContentType: ContentTypeDocx,
		}, nil
	}

	// The filled document is represented as a flat PDF re-derived from the
	// report data; the rendered DOCX above validated the template.
	pdfBuf, err := RenderTemplatePDF(req.Report, req.Activities, req.DayHours, req.User)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Data:        pdfBuf,
		Filename:    e.filename(req, "_mit_Vorlage", "pdf"),
		ContentType: ContentTypePDF,
	}, nil
}

// ExportAll renders the combined booklet over all given reports. The booklet
// is always a PDF; its filename carries the trainee's name.
func (e *Exporter) ExportAll(reports []db.Report, user *db.User) (*ExportResult, error) {
	if len(reports) == 0 {
		return nil, ErrNothingToExport
	}

	data, err := RenderCombinedPDF(reports, user)
	if err != nil {
		return nil, fmt.Errorf("render combined pdf: %w", err)
	}
	return &ExportResult{
		Data:        data,
		Filename:    fmt.Sprintf("Alle_Wochenberichte_%s.pdf", strings.Join(strings.Fields(user.DisplayName()), "_")),
		ContentType: ContentTypePDF,
	}, nil
}

// degrade renders the template-free direct PDF after a pipeline failure. The
// export only errors out when even the fallback cannot render.
func (e *Exporter) degrade(req ExportRequest, cause error) (*ExportResult, error) {
	log.Printf("export degraded to direct layout: %v", cause)

	data, err := RenderDirectPDF(req.Report, req.Activities, req.DayHours, req.User)
	if err != nil {
		return nil, fmt.Errorf("fallback render failed after %v: %w", cause, err)
	}
	return &ExportResult{
		Data:           data,
		Filename:       e.filename(req, "", "pdf"),
		ContentType:    ContentTypePDF,
		Degraded:       true,
		DegradedReason: cause.Error(),
	}, nil
}

func (e *Exporter) filename(req ExportRequest, suffix, ext string) string {
	return fmt.Sprintf("Wochenbericht_KW%d_%d%s.%s", req.Report.WeekNumber, req.Report.WeekYear, suffix, ext)
}
