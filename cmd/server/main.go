package main

import (
	"log"

	"github.com/berichtsheft/internal/config"
	"github.com/berichtsheft/internal/db"
	"github.com/berichtsheft/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if cfg.SeedDemoUsers {
		if err := db.EnsureUser(db.DB, "azubi@example.com", "password123", "Max Mustermann", db.RoleAzubi, "Musterfirma GmbH"); err != nil {
			log.Fatalf("failed to seed demo azubi: %v", err)
		}
		if err := db.EnsureUser(db.DB, "ausbilder@example.com", "password123", "Anna Schmidt", db.RoleAusbilder, "Musterfirma GmbH"); err != nil {
			log.Fatalf("failed to seed demo ausbilder: %v", err)
		}
	}

	r := router.SetupRouter(db.DB, cfg.SessionSecret, cfg.TemplateDir, cfg.UploadDir, cfg.UploadURLPath)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
