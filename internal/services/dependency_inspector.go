package services

import (
	"moneta/internal/models"
	"moneta/internal/store"
)

// Dependencies describes everything currently referencing a category.
type Dependencies struct {
	Transactions  int64 `json:"transactions"`
	Subcategories int64 `json:"subcategories"`
	Budgets       int64 `json:"budgets"`
	CanDelete     bool  `json:"can_delete"`
}

// DependencyInspector computes usage counts for a category before deletion.
// It performs read-only aggregation with no side effects; calling it any
// number of times is safe.
type DependencyInspector struct {
	store store.CategoryStorer
}

// NewDependencyInspector creates an inspector over the given store.
func NewDependencyInspector(categoryStore store.CategoryStorer) *DependencyInspector {
	return &DependencyInspector{store: categoryStore}
}

// Dependencies returns the usage counts for a category. A category can be
// deleted only when it has no transactions, no child categories, no budget
// allocations, and is not a global system category.
func (i *DependencyInspector) Dependencies(category *models.Category) (*Dependencies, error) {
	counts, err := i.store.CountUsages(category.ID)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Transactions:  counts.Transactions,
		Subcategories: counts.Children,
		Budgets:       counts.Budgets,
	}
	deps.CanDelete = !category.IsGlobal() &&
		deps.Transactions == 0 && deps.Subcategories == 0 && deps.Budgets == 0

	return deps, nil
}

// CanDelete reports whether the category is safe to delete.
func (i *DependencyInspector) CanDelete(category *models.Category) (bool, error) {
	deps, err := i.Dependencies(category)
	if err != nil {
		return false, err
	}
	return deps.CanDelete, nil
}
