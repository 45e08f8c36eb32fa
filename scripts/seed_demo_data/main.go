package main

import (
	"fmt"
	"log"
	"time"

	"github.com/berichtsheft/internal/config"
	"github.com/berichtsheft/internal/db"
	"github.com/berichtsheft/internal/service"
)

// Seeds the demo accounts plus a few weeks of sample reports in various
// review states. Run it against a fresh database before demos.
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("Datenbank konnte nicht initialisiert werden:", err)
	}

	fmt.Println("Erzeuge Demo-Daten...")

	azubi, trainer := createDemoUsers()
	createDemoReports(azubi, trainer)

	fmt.Println("Demo-Daten angelegt.")
	fmt.Println("Azubi: azubi@example.com (Passwort: password123)")
	fmt.Println("Ausbilder: ausbilder@example.com (Passwort: password123)")
}

func createDemoUsers() (*db.User, *db.User) {
	seeds := []struct {
		email, name, role string
	}{
		{"azubi@example.com", "Max Mustermann", db.RoleAzubi},
		{"ausbilder@example.com", "Anna Schmidt", db.RoleAusbilder},
	}
	for _, seed := range seeds {
		if err := db.EnsureUser(db.DB, seed.email, "password123", seed.name, seed.role, "Musterfirma GmbH"); err != nil {
			log.Fatalf("Demo-Benutzer %s konnte nicht angelegt werden: %v", seed.email, err)
		}
	}

	var azubi, trainer db.User
	if err := db.DB.Where("email = ?", "azubi@example.com").First(&azubi).Error; err != nil {
		log.Fatal("Demo-Azubi nicht gefunden:", err)
	}
	if err := db.DB.Where("email = ?", "ausbilder@example.com").First(&trainer).Error; err != nil {
		log.Fatal("Demo-Ausbilder nicht gefunden:", err)
	}

	// The approval signature is synthesized from first and last name, so the
	// demo trainer needs the split filled in.
	if trainer.FirstName == "" {
		trainer.FirstName = "Anna"
		trainer.LastName = "Schmidt"
		if err := db.DB.Save(&trainer).Error; err != nil {
			log.Fatal("Demo-Ausbilder konnte nicht aktualisiert werden:", err)
		}
	}
	return &azubi, &trainer
}

// sampleWeek describes one seeded report and the review state it ends up in.
type sampleWeek struct {
	week    int
	status  string
	message string
}

func createDemoReports(azubi, trainer *db.User) {
	var count int64
	db.DB.Model(&db.Report{}).Where("user_id = ?", azubi.ID).Count(&count)
	if count > 0 {
		fmt.Println("Berichte existieren bereits, überspringe")
		return
	}

	reports := service.NewReportService(db.DB)
	year, currentWeek := demoWeek(time.Now())

	weeks := []sampleWeek{
		{week: currentWeek - 3, status: db.StatusApproved, message: "Sauber dokumentiert, weiter so."},
		{week: currentWeek - 2, status: db.StatusNeedsCorrection, message: "Bitte die Tätigkeiten am Dienstag ausführlicher beschreiben."},
		{week: currentWeek - 1, status: db.StatusSubmitted},
		{week: currentWeek, status: db.StatusDraft},
	}

	for _, sample := range weeks {
		if sample.week < 1 {
			continue
		}
		report, err := reports.GetOrCreate(azubi.ID, year, sample.week)
		if err != nil {
			log.Printf("Bericht KW %d konnte nicht angelegt werden: %v", sample.week, err)
			continue
		}

		if _, err := reports.SaveWeek(report.ID, sampleActivities(sample.week), sampleHours()); err != nil {
			log.Printf("Bericht KW %d konnte nicht befüllt werden: %v", sample.week, err)
			continue
		}

		if sample.status == db.StatusDraft {
			continue
		}
		if _, err := reports.Submit(report.ID); err != nil {
			log.Printf("Bericht KW %d konnte nicht eingereicht werden: %v", sample.week, err)
			continue
		}

		switch sample.status {
		case db.StatusApproved:
			_, err = reports.AddFeedback(report.ID, service.FeedbackInput{
				Kind:    db.FeedbackApproval,
				Message: sample.message,
			}, trainer)
		case db.StatusNeedsCorrection:
			_, err = reports.AddFeedback(report.ID, service.FeedbackInput{
				Kind:    db.FeedbackCorrection,
				Message: sample.message,
				FieldCorrections: []db.FieldCorrection{
					{Field: "Dienstag", Message: "Tätigkeiten fehlen"},
				},
			}, trainer)
		}
		if err != nil {
			log.Printf("Feedback für KW %d fehlgeschlagen: %v", sample.week, err)
		}
	}

	fmt.Printf("Berichte für KW %d-%d/%d angelegt\n", currentWeek-3, currentWeek, year)
}

// demoWeek maps a date onto the Jan-1-offset week numbering the reports use.
func demoWeek(now time.Time) (int, int) {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	week := int(now.Sub(jan1).Hours()/(24*7)) + 1
	if week < 4 {
		week = 4
	}
	if week > 53 {
		week = 53
	}
	return now.Year(), week
}

func sampleActivities(week int) []service.ActivityInput {
	catalog := []string{
		"Kundenberatung im Verkaufsraum",
		"Wareneingang geprüft und eingelagert",
		"Teambesprechung zur Wochenplanung",
		"Dokumentation der Arbeitsabläufe",
		"Einführung in die Warenwirtschaft",
		"Qualitätskontrolle der Lieferung",
		"Berufsschule: Rechnungswesen",
		"Projektarbeit mit dem Ausbilder",
	}

	var inputs []service.ActivityInput
	for day := 1; day <= 5; day++ {
		first := catalog[(week+day)%len(catalog)]
		second := catalog[(week+day+3)%len(catalog)]
		inputs = append(inputs,
			service.ActivityInput{DayOfWeek: day, Text: first},
			service.ActivityInput{DayOfWeek: day, Text: second},
		)
	}
	return inputs
}

func sampleHours() []service.DayHoursInput {
	return []service.DayHoursInput{
		{DayOfWeek: 1, Hours: 8, Minutes: 0},
		{DayOfWeek: 2, Hours: 7, Minutes: 30},
		{DayOfWeek: 3, Hours: 8, Minutes: 0},
		{DayOfWeek: 4, Hours: 8, Minutes: 0},
		{DayOfWeek: 5, Hours: 6, Minutes: 30},
	}
}
