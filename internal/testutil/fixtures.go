package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneta/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type owned by the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, ownerID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		OwnerID: &ownerID,
		Name:    fmt.Sprintf("Test Category %d", nextID()),
		Type:    categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates a category of the given type under a parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, ownerID, parentID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		OwnerID:  &ownerID,
		Name:     fmt.Sprintf("Test Subcategory %d", nextID()),
		Type:     categoryType,
		ParentID: &parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test child category: %v", err)
	}
	return category
}

// CreateGlobalCategory creates a system-provided category with no owner.
func CreateGlobalCategory(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: name,
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create global category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in cents) attached to a category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, ownerID string, categoryID *string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget allocation for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, ownerID, categoryID string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     10000, // $100.00
		Period:     models.BudgetPeriodMonthly,
		StartDate:  time.Now().Truncate(24 * time.Hour),
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
