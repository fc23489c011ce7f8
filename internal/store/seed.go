package store

import (
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
)

// defaultCategory describes one system-provided category seeded at startup.
type defaultCategory struct {
	Name  string
	Type  models.CategoryType
	Color string
}

var defaultCategories = []defaultCategory{
	{Name: "Salary", Type: models.CategoryTypeIncome, Color: "#2E7D32"},
	{Name: "Investments", Type: models.CategoryTypeIncome, Color: "#1565C0"},
	{Name: "Gifts", Type: models.CategoryTypeIncome, Color: "#6A1B9A"},
	{Name: "Other Income", Type: models.CategoryTypeIncome, Color: "#00838F"},
	{Name: "Housing", Type: models.CategoryTypeExpense, Color: "#C62828"},
	{Name: "Groceries", Type: models.CategoryTypeExpense, Color: "#EF6C00"},
	{Name: "Transport", Type: models.CategoryTypeExpense, Color: "#4527A0"},
	{Name: "Health", Type: models.CategoryTypeExpense, Color: "#AD1457"},
	{Name: "Leisure", Type: models.CategoryTypeExpense, Color: "#00695C"},
	{Name: "Other Expenses", Type: models.CategoryTypeExpense, Color: "#546E7A"},
}

// SeedGlobalCategories ensures the system-provided category set exists.
// Global categories have a NULL owner and are visible to every user. The seed
// is idempotent: existing rows (matched case-insensitively by name and type)
// are left untouched, so renamed colors or new defaults can be added in later
// releases without duplicating rows.
func SeedGlobalCategories(db *gorm.DB) error {
	for _, def := range defaultCategories {
		var count int64
		err := db.Model(&models.Category{}).
			Where("owner_id IS NULL").
			Where("type = ?", def.Type).
			Where("LOWER(name) = ?", strings.ToLower(def.Name)).
			Count(&count).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		category := &models.Category{
			Name:  def.Name,
			Type:  def.Type,
			Color: def.Color,
		}
		if err := db.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("seeded global category", "name", def.Name, "type", def.Type)
	}
	return nil
}
