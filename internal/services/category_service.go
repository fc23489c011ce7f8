package services

import (
	"strings"
	"unicode/utf8"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/store"
	"moneta/internal/validator"
)

// CategoryNode is one node of an assembled category tree, carrying the usage
// counts the dashboard displays next to each category.
type CategoryNode struct {
	models.Category
	Usage    store.UsageCounts `json:"usage"`
	Children []*CategoryNode   `json:"children"`
}

// categoryService orchestrates category hierarchy mutations. Every mutating
// call validates against the hierarchy rules first and performs at most one
// persisted write, applied only after all validations pass. The service
// holds no state beyond a request's duration.
type categoryService struct {
	store     store.CategoryStorer
	validator *HierarchyValidator
	inspector *DependencyInspector
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(categoryStore store.CategoryStorer) CategoryServicer {
	return &categoryService{
		store:     categoryStore,
		validator: NewHierarchyValidator(categoryStore),
		inspector: NewDependencyInspector(categoryStore),
	}
}

// CreateCategory creates a new category for the owner after validating the
// name, color, name uniqueness within the visible scope, and, when a parent
// is given, the structural hierarchy rules.
func (s *categoryService) CreateCategory(ownerID, name string, categoryType models.CategoryType, color string, parentID *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category type must be income or expense")
	}
	if color != "" && !validator.IsHexColor(color) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "color must be a #RRGGBB hex code")
	}

	if err := s.ensureNameAvailable(ownerID, categoryType, name, ""); err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.validator.ValidateParent(ownerID, *parentID, categoryType, nil); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		OwnerID:  &ownerID,
		Name:     name,
		Type:     categoryType,
		Color:    color,
		ParentID: parentID,
	}
	if err := s.store.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetUserCategories returns one page of categories visible to the owner,
// optionally filtered by type.
func (s *categoryService) GetUserCategories(ownerID string, categoryType *models.CategoryType, includeGlobal bool, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	filter := store.CategoryFilter{Type: categoryType, IncludeGlobal: includeGlobal}
	return s.store.FindPage(ownerID, filter, page)
}

// GetCategoryByID retrieves a category within the owner's visible scope.
func (s *categoryService) GetCategoryByID(ownerID, categoryID string) (*models.Category, error) {
	return s.getVisible(ownerID, categoryID)
}

// UpdateCategory applies a rename, recolor, and/or reparent. The category's
// type is immutable. Only the changed columns are persisted, in one write
// after every check passes.
func (s *categoryService) UpdateCategory(ownerID, categoryID string, patch CategoryPatch) (*models.Category, error) {
	category, err := s.getVisible(ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsGlobal() {
		return nil, apperrors.ErrGlobalCategoryNotEditable
	}

	updates := make(map[string]interface{})

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		if name != category.Name {
			if err := s.ensureNameAvailable(ownerID, category.Type, name, category.ID); err != nil {
				return nil, err
			}
			updates["name"] = name
		}
	}

	if patch.Color != nil {
		color := *patch.Color
		if color != "" && !validator.IsHexColor(color) {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "color must be a #RRGGBB hex code")
		}
		updates["color"] = color
	}

	if patch.ParentID != nil {
		if *patch.ParentID == "" {
			// Detach: the category becomes a root.
			if category.ParentID != nil {
				updates["parent_id"] = nil
			}
		} else if category.ParentID == nil || *category.ParentID != *patch.ParentID {
			if err := s.validator.ValidateParent(ownerID, *patch.ParentID, category.Type, &category.ID); err != nil {
				return nil, err
			}
			updates["parent_id"] = *patch.ParentID
		}
	}

	if len(updates) == 0 {
		return category, nil
	}
	return s.store.Update(categoryID, updates)
}

// DeleteCategory deletes a category once the dependency inspector confirms
// nothing references it. Global categories are never deletable. On refusal
// the error carries the usage counts so the caller can explain exactly what
// is blocking the deletion.
func (s *categoryService) DeleteCategory(ownerID, categoryID string) error {
	category, err := s.getVisible(ownerID, categoryID)
	if err != nil {
		return err
	}
	if category.IsGlobal() {
		return apperrors.ErrGlobalCategoryUndeletable
	}

	deps, err := s.inspector.Dependencies(category)
	if err != nil {
		return err
	}
	if !deps.CanDelete {
		return apperrors.WithDetails(apperrors.ErrCategoryInUse, deps)
	}

	return s.store.Delete(categoryID)
}

// GetHierarchy assembles the owner's visible categories into trees, one per
// root, each node annotated with its usage counts. Assembly works over an
// id-addressed arena built from a single scope query rather than recursive
// record loads, and attaches children level by level up to the depth cap.
func (s *categoryService) GetHierarchy(ownerID string, categoryType *models.CategoryType, includeGlobal bool) ([]*CategoryNode, error) {
	filter := store.CategoryFilter{Type: categoryType, IncludeGlobal: includeGlobal}
	categories, err := s.store.FindByScope(ownerID, filter)
	if err != nil {
		return nil, err
	}

	arena := make(map[string]*CategoryNode, len(categories))
	for i := range categories {
		node := &CategoryNode{Category: categories[i], Children: []*CategoryNode{}}
		counts, err := s.store.CountUsages(node.ID)
		if err != nil {
			return nil, err
		}
		node.Usage = counts
		arena[node.ID] = node
	}

	// Group children by parent, treating nodes whose parent fell outside the
	// scope query as roots so a partial view never drops categories.
	childrenOf := make(map[string][]*CategoryNode)
	roots := []*CategoryNode{}
	for _, c := range categories {
		node := arena[c.ID]
		if c.ParentID != nil {
			if _, ok := arena[*c.ParentID]; ok {
				childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// Attach breadth-first so the tree is bounded by the depth cap even if
	// the stored data is malformed.
	type levelNode struct {
		node  *CategoryNode
		level int
	}
	queue := make([]levelNode, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, levelNode{r, 0})
	}
	for len(queue) > 0 {
		ln := queue[0]
		queue = queue[1:]
		if ln.level+1 >= maxCategoryDepth {
			continue
		}
		for _, child := range childrenOf[ln.node.ID] {
			ln.node.Children = append(ln.node.Children, child)
			queue = append(queue, levelNode{child, ln.level + 1})
		}
	}

	return roots, nil
}

// CheckDependencies returns the usage counts for a category in the owner's
// visible scope.
func (s *categoryService) CheckDependencies(ownerID, categoryID string) (*Dependencies, error) {
	category, err := s.getVisible(ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.inspector.Dependencies(category)
}

// getVisible resolves a category and confirms it is in the owner's scope
// (owned or global). Invisible categories are indistinguishable from absent
// ones.
func (s *categoryService) getVisible(ownerID, categoryID string) (*models.Category, error) {
	category, err := s.store.Get(categoryID)
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo(ownerID) {
		return nil, apperrors.ErrCategoryNotFound
	}
	return category, nil
}

// ensureNameAvailable enforces scoped name uniqueness: within the owner's
// visible categories (own + global) of the given type, names must be unique
// case-insensitively. excludeID skips the category being renamed.
func (s *categoryService) ensureNameAvailable(ownerID string, categoryType models.CategoryType, name, excludeID string) error {
	existing, err := s.store.FindByNameInScope(ownerID, categoryType, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return apperrors.ErrDuplicateCategoryName
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
	}
	// Rune count, matching the binding layer's max=100 semantics.
	if utf8.RuneCountInString(name) > models.MaxCategoryNameLength {
		return apperrors.WithMessage(apperrors.ErrValidation, "category name must be at most 100 characters")
	}
	return nil
}
