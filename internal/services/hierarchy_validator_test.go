package services

import (
	"testing"

	"moneta/internal/models"
	"moneta/internal/store"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newTestHierarchyValidator(db *gorm.DB) *HierarchyValidator {
	return NewHierarchyValidator(store.NewCategoryStore(db))
}

func TestValidateParent(t *testing.T) {
	t.Run("accepts_root_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, parent.ID, models.CategoryTypeExpense, nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("accepts_global_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		global := testutil.CreateGlobalCategory(t, db, "Housing", models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, global.ID, models.CategoryTypeExpense, nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("rejects_missing_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)

		err := v.ValidateParent(user.ID, "00000000-0000-0000-0000-000000000000", models.CategoryTypeExpense, nil)
		testutil.AssertAppError(t, err, "PARENT_CATEGORY_NOT_FOUND")
	})

	t.Run("rejects_foreign_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		owner := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(stranger.ID, parent.ID, models.CategoryTypeExpense, nil)
		testutil.AssertAppError(t, err, "PARENT_CATEGORY_NOT_FOUND")
	})

	t.Run("rejects_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, parent.ID, models.CategoryTypeIncome, nil)
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("rejects_self_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, cat.ID, models.CategoryTypeExpense, &cat.ID)
		testutil.AssertAppError(t, err, "CIRCULAR_CATEGORY_REFERENCE")
	})

	t.Run("rejects_descendant_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		root := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		child := testutil.CreateTestChildCategory(t, db, user.ID, root.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, child.ID, models.CategoryTypeExpense, &root.ID)
		testutil.AssertAppError(t, err, "CIRCULAR_CATEGORY_REFERENCE")
	})

	t.Run("rejects_fourth_level", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		root := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		child := testutil.CreateTestChildCategory(t, db, user.ID, root.ID, models.CategoryTypeExpense)
		grandchild := testutil.CreateTestChildCategory(t, db, user.ID, child.ID, models.CategoryTypeExpense)

		err := v.ValidateParent(user.ID, grandchild.ID, models.CategoryTypeExpense, nil)
		testutil.AssertAppError(t, err, "CATEGORY_DEPTH_EXCEEDED")
	})

	t.Run("counts_moved_subtree_against_depth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)

		root := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		mid := testutil.CreateTestChildCategory(t, db, user.ID, root.ID, models.CategoryTypeExpense)
		carrier := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestChildCategory(t, db, user.ID, carrier.ID, models.CategoryTypeExpense)

		// Moving carrier under mid would drag its child to a fourth level.
		err := v.ValidateParent(user.ID, mid.ID, models.CategoryTypeExpense, &carrier.ID)
		testutil.AssertAppError(t, err, "CATEGORY_DEPTH_EXCEEDED")

		// Under a root the same subtree fits exactly.
		testutil.AssertNoError(t, v.ValidateParent(user.ID, root.ID, models.CategoryTypeExpense, &carrier.ID))
	})

	t.Run("accepts_second_and_third_level", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		root := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		child := testutil.CreateTestChildCategory(t, db, user.ID, root.ID, models.CategoryTypeExpense)

		testutil.AssertNoError(t, v.ValidateParent(user.ID, root.ID, models.CategoryTypeExpense, nil))
		testutil.AssertNoError(t, v.ValidateParent(user.ID, child.ID, models.CategoryTypeExpense, nil))
	})

	t.Run("detects_corrupt_parent_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		v := newTestHierarchyValidator(db)
		user := testutil.CreateTestUser(t, db)
		a := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		b := testutil.CreateTestChildCategory(t, db, user.ID, a.ID, models.CategoryTypeExpense)

		// Force a->b->a directly, bypassing the service layer.
		if err := db.Model(a).Update("parent_id", b.ID).Error; err != nil {
			t.Fatalf("failed to corrupt the parent chain: %v", err)
		}

		err := v.ValidateParent(user.ID, b.ID, models.CategoryTypeExpense, nil)
		testutil.AssertAppError(t, err, "CIRCULAR_CATEGORY_REFERENCE")
	})
}
