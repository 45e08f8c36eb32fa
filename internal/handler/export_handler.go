package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/berichtsheft/internal/export"
	"github.com/gin-gonic/gin"
)

// ExportReport renders a report as a downloadable PDF or DOCX. Template
// failures degrade to the direct layout instead of failing the download.
func (a *API) ExportReport(c *gin.Context) {
	report := a.loadReport(c)
	if report == nil {
		return
	}

	format := c.DefaultQuery("format", export.FormatPDF)
	style := c.DefaultQuery("style", export.StyleStandard)
	templateRef := c.Query("template")

	owner := &report.User

	result, err := a.exporter.Export(export.ExportRequest{
		Report:      report,
		Activities:  report.Activities,
		DayHours:    report.DayHours,
		User:        owner,
		Format:      format,
		Style:       style,
		TemplateRef: templateRef,
	})
	if err != nil {
		if err == export.ErrUnsupportedFormat {
			respondError(c, http.StatusBadRequest, "Unbekanntes Exportformat")
			return
		}
		respondError(c, http.StatusInternalServerError, "Export fehlgeschlagen")
		return
	}

	if result.Degraded {
		c.Header("X-Export-Degraded", result.DegradedReason)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ExportAllReports bundles every approved report of the signed-in trainee
// into one combined PDF booklet.
func (a *API) ExportAllReports(c *gin.Context) {
	user := currentUser(c)

	reports, err := a.reports.ListApproved(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Berichte konnten nicht geladen werden")
		return
	}

	result, err := a.exporter.ExportAll(reports, user)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			respondError(c, http.StatusNotFound, "Keine genehmigten Berichte zum Exportieren vorhanden")
			return
		}
		respondError(c, http.StatusInternalServerError, "Export fehlgeschlagen")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ListTemplates returns the configured template catalog together with the
// parameters each template declares.
func (a *API) ListTemplates(c *gin.Context) {
	type templateInfo struct {
		Ref        string   `json:"ref"`
		Parameters []string `json:"parameters"`
		Valid      bool     `json:"valid"`
		Error      string   `json:"error,omitempty"`
	}

	infos := make([]templateInfo, 0, len(a.templates))
	for _, ref := range a.templates {
		info := templateInfo{Ref: ref}

		template, err := export.ResolveTemplate(a.loader, ref)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Parameters = template.Parameters()
			info.Valid = len(info.Parameters) > 0
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{"templates": infos})
}
