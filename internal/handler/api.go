package handler

import (
	"github.com/berichtsheft/internal/export"
	"github.com/berichtsheft/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	users      *service.UserService
	reports    *service.ReportService
	catalog    *service.PredefinedActivityService
	exporter   *export.Exporter
	loader     export.Loader
	templates  []string
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services. defaultTemplates
// lists the template references offered in the catalog endpoint.
func NewAPI(db *gorm.DB, templateDir, uploadDir, uploadURL string, defaultTemplates []string) *API {
	loader := export.NewResourceLoader(templateDir)

	return &API{
		db:        db,
		users:     service.NewUserService(db),
		reports:   service.NewReportService(db),
		catalog:   service.NewPredefinedActivityService(db),
		exporter:  export.NewExporter(loader),
		loader:    loader,
		templates: defaultTemplates,
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// DB exposes the underlying gorm instance for test seeding.
func (a *API) DB() *gorm.DB {
	return a.db
}
