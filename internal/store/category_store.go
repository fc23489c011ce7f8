// Package store provides durable access to category records and read-only
// usage counts. It owns the scoping rules (own vs. global rows) but carries
// no hierarchy business rules; those live in the services package.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// CategoryFilter holds optional criteria for scoped category queries.
// Named fields replace ad hoc query-clause construction: every read goes
// through an explicit owner scope plus these typed filters.
type CategoryFilter struct {
	Type          *models.CategoryType
	ParentID      *string
	RootsOnly     bool
	NameContains  string
	IncludeGlobal bool
}

// UsageCounts aggregates the references that block a category deletion.
type UsageCounts struct {
	Transactions int64 `json:"transactions"`
	Children     int64 `json:"subcategories"`
	Budgets      int64 `json:"budgets"`
}

// CategoryStorer defines the storage contract for category records.
// All reads take an explicit owner scope; there is no implicit global state.
type CategoryStorer interface {
	Get(id string) (*models.Category, error)
	GetChildren(id string) ([]models.Category, error)
	FindByScope(ownerID string, filter CategoryFilter) ([]models.Category, error)
	FindPage(ownerID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	FindByNameInScope(ownerID string, categoryType models.CategoryType, name string) (*models.Category, error)
	Create(category *models.Category) error
	Update(id string, patch map[string]interface{}) (*models.Category, error)
	Delete(id string) error
	CountUsages(id string) (UsageCounts, error)
}

// categoryStore is the GORM-backed CategoryStorer.
type categoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a new CategoryStorer backed by the given database.
func NewCategoryStore(db *gorm.DB) CategoryStorer {
	return &categoryStore{db: db}
}

// Get retrieves a category by ID regardless of owner. Visibility checks are
// the caller's responsibility; the store only resolves rows.
func (s *categoryStore) Get(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetChildren returns the direct children of a category.
func (s *categoryStore) GetChildren(id string) ([]models.Category, error) {
	var children []models.Category
	if err := s.db.Where("parent_id = ?", id).Order("name ASC").Find(&children).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return children, nil
}

// scoped returns a query restricted to the owner's visible rows: their own
// categories plus, when the filter asks for it, global ones.
func (s *categoryStore) scoped(ownerID string, filter CategoryFilter) *gorm.DB {
	q := s.db.Model(&models.Category{})
	if filter.IncludeGlobal {
		q = q.Where("owner_id = ? OR owner_id IS NULL", ownerID)
	} else {
		q = q.Where("owner_id = ?", ownerID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.ParentID != nil {
		q = q.Where("parent_id = ?", *filter.ParentID)
	} else if filter.RootsOnly {
		q = q.Where("parent_id IS NULL")
	}
	if filter.NameContains != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.NameContains)+"%")
	}
	return q
}

// FindByScope returns all categories visible to the owner matching the filter.
func (s *categoryStore) FindByScope(ownerID string, filter CategoryFilter) ([]models.Category, error) {
	var categories []models.Category
	if err := s.scoped(ownerID, filter).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// FindPage returns one page of categories visible to the owner matching the filter.
func (s *categoryStore) FindPage(ownerID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	if err := s.scoped(ownerID, filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.scoped(ownerID, filter).Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// FindByNameInScope looks up a category by name within the owner's visible
// scope (own + global) and type. The comparison is case-insensitive; stored
// casing is preserved. Returns nil without error when no category matches.
func (s *categoryStore) FindByNameInScope(ownerID string, categoryType models.CategoryType, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Where("type = ?", categoryType).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// Create persists a new category.
func (s *categoryStore) Create(category *models.Category) error {
	if err := s.db.Create(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Update applies the given column patch to a category and returns the
// refreshed record.
func (s *categoryStore) Update(id string, patch map[string]interface{}) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(patch) > 0 {
		if err := s.db.Model(category).Updates(patch).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.Get(id)
}

// Delete soft-deletes a category. Teardown safety (usage counts, global
// guard) is enforced by the service before this is called.
func (s *categoryStore) Delete(id string) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CountUsages counts the transactions, direct children, and budget
// allocations referencing a category.
func (s *categoryStore) CountUsages(id string) (UsageCounts, error) {
	var counts UsageCounts

	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&counts.Transactions).Error; err != nil {
		return UsageCounts{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&counts.Children).Error; err != nil {
		return UsageCounts{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Budget{}).Where("category_id = ?", id).Count(&counts.Budgets).Error; err != nil {
		return UsageCounts{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return counts, nil
}
