package router

import (
	"github.com/berichtsheft/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DefaultTemplates are the template references offered out of the box.
var DefaultTemplates = []string{
	"wochenbericht_vorlage.txt",
	"wochenbericht_vorlage_erweitert.txt",
}

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(gdb *gorm.DB, sessionSecret, templateDir, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("berichtsheft_session", store))

	// Uploaded signatures and the bundled templates are served statically.
	r.Static(uploadURLPath, uploadDir)
	r.Static("/templates", templateDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	a := handler.NewAPI(gdb, templateDir, uploadDir, uploadURLPath, DefaultTemplates)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", a.Register)
			auth.POST("/login", a.Login)
			auth.GET("/logout", a.Logout)
			auth.GET("/me", a.AuthRequired(), a.Me)
		}

		authed := api.Group("")
		authed.Use(a.AuthRequired())
		{
			authed.GET("/reports", a.ListReports)
			authed.GET("/reports/export", a.ExportAllReports)
			authed.GET("/reports/week/:year/:week", a.GetReportByWeek)
			authed.GET("/reports/:id", a.GetReport)
			authed.PUT("/reports/:id", a.SaveReport)
			authed.POST("/reports/:id/submit", a.SubmitReport)
			authed.POST("/reports/:id/signature", a.SignReport)
			authed.GET("/reports/:id/feedback", a.ListFeedback)
			authed.GET("/reports/:id/export", a.ExportReport)

			authed.GET("/templates", a.ListTemplates)
			authed.GET("/predefined-activities", a.ListPredefinedActivities)
			authed.GET("/predefined-activities/categories", a.ListActivityCategories)

			authed.PUT("/profile", a.UpdateProfile)
			authed.POST("/profile/signature", a.UpdateSignature)

			review := authed.Group("")
			review.Use(a.AusbilderRequired())
			{
				review.GET("/reports/review/inbox", a.ListReportsForReview)
				review.POST("/reports/:id/feedback", a.AddFeedback)
			}
		}
	}

	return r
}
