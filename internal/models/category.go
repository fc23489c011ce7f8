package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// MaxCategoryNameLength is the longest allowed category name.
const MaxCategoryNameLength = 100

// Category represents a transaction category. Categories form per-user trees
// via ParentID. A nil OwnerID marks a global, system-provided category that is
// visible to every user but can never be modified or deleted through the API.
type Category struct {
	Base
	OwnerID  *string      `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Name     string       `gorm:"size:100;not null" json:"name"`
	Type     CategoryType `gorm:"not null" json:"type"`
	Color    string       `json:"color,omitempty"`
	ParentID *string      `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// IsGlobal reports whether the category is system-provided (not owned by any user).
func (c *Category) IsGlobal() bool {
	return c.OwnerID == nil
}

// VisibleTo reports whether the category is in the given owner's scope:
// either owned by that user or global.
func (c *Category) VisibleTo(ownerID string) bool {
	return c.OwnerID == nil || *c.OwnerID == ownerID
}
