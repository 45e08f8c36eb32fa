package service

import (
	"fmt"
	"strings"

	"github.com/berichtsheft/internal/db"
	"gorm.io/gorm"
)

// PredefinedActivityService serves the quick-fill activity catalog.
type PredefinedActivityService struct {
	db *gorm.DB
}

// NewPredefinedActivityService creates a PredefinedActivityService instance.
func NewPredefinedActivityService(gdb *gorm.DB) *PredefinedActivityService {
	return &PredefinedActivityService{db: gdb}
}

// List returns the catalog, optionally narrowed to one category, ordered by
// category then name.
func (s *PredefinedActivityService) List(category string) ([]db.PredefinedActivity, error) {
	query := s.db.Model(&db.PredefinedActivity{})
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		query = query.Where("category = ?", trimmed)
	}

	var entries []db.PredefinedActivity
	if err := query.Order("category asc, name asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list predefined activities: %w", err)
	}
	return entries, nil
}

// Categories returns the distinct catalog categories.
func (s *PredefinedActivityService) Categories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&db.PredefinedActivity{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
