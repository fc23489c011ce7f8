package services

import (
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// CategoryPatch holds the optional fields of a category update. A nil field
// is left unchanged. A non-nil empty ParentID detaches the category from its
// parent, making it a root.
type CategoryPatch struct {
	Name     *string
	Color    *string
	ParentID *string
}

// CategoryServicer defines the contract for category hierarchy business logic.
type CategoryServicer interface {
	CreateCategory(ownerID, name string, categoryType models.CategoryType, color string, parentID *string) (*models.Category, error)
	GetUserCategories(ownerID string, categoryType *models.CategoryType, includeGlobal bool, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ownerID, categoryID string) (*models.Category, error)
	UpdateCategory(ownerID, categoryID string, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(ownerID, categoryID string) error
	GetHierarchy(ownerID string, categoryType *models.CategoryType, includeGlobal bool) ([]*CategoryNode, error)
	CheckDependencies(ownerID, categoryID string) (*Dependencies, error)
}
