package services

import (
	"testing"

	"moneta/internal/models"
	"moneta/internal/store"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newTestDependencyInspector(db *gorm.DB) *DependencyInspector {
	return NewDependencyInspector(store.NewCategoryStore(db))
}

func TestDependencies(t *testing.T) {
	t.Run("clean_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		inspector := newTestDependencyInspector(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		deps, err := inspector.Dependencies(cat)
		testutil.AssertNoError(t, err)

		if deps.Transactions != 0 || deps.Subcategories != 0 || deps.Budgets != 0 {
			t.Errorf("expected zero counts, got %d/%d/%d", deps.Transactions, deps.Subcategories, deps.Budgets)
		}
		if !deps.CanDelete {
			t.Error("expected clean category to be deletable")
		}
	})

	t.Run("counts_each_dependency_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		inspector := newTestDependencyInspector(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, 1500)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, 2500)
		testutil.CreateTestChildCategory(t, db, user.ID, cat.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID)

		deps, err := inspector.Dependencies(cat)
		testutil.AssertNoError(t, err)

		if deps.Transactions != 2 {
			t.Errorf("expected 2 transactions, got %d", deps.Transactions)
		}
		if deps.Subcategories != 1 {
			t.Errorf("expected 1 subcategory, got %d", deps.Subcategories)
		}
		if deps.Budgets != 1 {
			t.Errorf("expected 1 budget, got %d", deps.Budgets)
		}
		if deps.CanDelete {
			t.Error("expected referenced category to be undeletable")
		}
	})

	t.Run("ignores_other_categories_usage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		inspector := newTestDependencyInspector(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		other := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestTransaction(t, db, user.ID, &other.ID, models.TransactionTypeExpense, 100)

		deps, err := inspector.Dependencies(cat)
		testutil.AssertNoError(t, err)

		if deps.Transactions != 0 {
			t.Errorf("expected 0 transactions, got %d", deps.Transactions)
		}
		if !deps.CanDelete {
			t.Error("expected unused category to be deletable")
		}
	})

	t.Run("global_category_never_deletable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		inspector := newTestDependencyInspector(db)
		global := testutil.CreateGlobalCategory(t, db, "Housing", models.CategoryTypeExpense)

		deps, err := inspector.Dependencies(global)
		testutil.AssertNoError(t, err)

		if deps.CanDelete {
			t.Error("global categories must never be deletable")
		}
	})
}
