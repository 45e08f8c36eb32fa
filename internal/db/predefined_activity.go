package db

import "gorm.io/gorm"

// PredefinedActivity is a catalog entry offered as a quick-fill suggestion
// when writing activity text.
type PredefinedActivity struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Category    string
}

// SeedPredefinedActivities fills an empty catalog with the default entries.
// A non-empty table is left untouched.
func SeedPredefinedActivities(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&PredefinedActivity{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []PredefinedActivity{
		{Name: "Kundenberatung", Description: "Beratung von Kunden zu Produkten und Dienstleistungen", Category: "Verkauf"},
		{Name: "Wareneingangsprüfung", Description: "Kontrolle und Prüfung eingehender Waren", Category: "Lager"},
		{Name: "Buchhaltung", Description: "Erfassung und Bearbeitung von Geschäftsvorfällen", Category: "Verwaltung"},
		{Name: "Projektplanung", Description: "Planung und Organisation von Projekten", Category: "Management"},
		{Name: "Dokumentation", Description: "Erstellung und Pflege von Dokumentationen", Category: "Verwaltung"},
		{Name: "Schulung/Weiterbildung", Description: "Teilnahme an Schulungen und Weiterbildungsmaßnahmen", Category: "Bildung"},
		{Name: "Qualitätskontrolle", Description: "Prüfung und Sicherstellung der Produktqualität", Category: "Qualität"},
		{Name: "Teammeeting", Description: "Teilnahme an Teambesprechungen und Meetings", Category: "Kommunikation"},
		{Name: "Kundentermin", Description: "Termine und Gespräche mit Kunden", Category: "Verkauf"},
		{Name: "Datenanalyse", Description: "Auswertung und Analyse von Geschäftsdaten", Category: "Analyse"},
	}

	return gdb.Create(&defaults).Error
}
