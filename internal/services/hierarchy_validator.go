package services

import (
	"errors"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/store"
)

// maxCategoryDepth is the number of tree levels allowed: a root, a child,
// and a grandchild. Linking anything under a grandchild is rejected.
const maxCategoryDepth = 3

// HierarchyValidator decides whether a proposed parent/child relationship
// keeps a category tree valid. It is a pure decision function over store
// reads and never mutates state; the category service consults it
// immediately before any create or reparent.
type HierarchyValidator struct {
	store store.CategoryStorer
}

// NewHierarchyValidator creates a validator over the given store.
func NewHierarchyValidator(categoryStore store.CategoryStorer) *HierarchyValidator {
	return &HierarchyValidator{store: categoryStore}
}

// ValidateParent checks that linking a category of childType under
// proposedParentID is structurally valid for the owner. childID is nil for a
// fresh create and set when an existing category is being reparented, in
// which case self- and descendant-parenting are also rejected.
func (v *HierarchyValidator) ValidateParent(ownerID, proposedParentID string, childType models.CategoryType, childID *string) error {
	parent, err := v.store.Get(proposedParentID)
	if err != nil {
		if isCategoryNotFound(err) {
			return apperrors.ErrParentCategoryNotFound
		}
		return err
	}
	if !parent.VisibleTo(ownerID) {
		return apperrors.ErrParentCategoryNotFound
	}

	if parent.Type != childType {
		return apperrors.ErrCategoryTypeMismatch
	}

	ancestors, err := v.ancestorsOf(parent)
	if err != nil {
		return err
	}

	// A reparented category drags its whole subtree along, so the depth
	// check must account for the levels hanging below it.
	subtreeHeight := 0
	if childID != nil {
		if proposedParentID == *childID {
			return apperrors.ErrCircularCategoryReference
		}
		for _, ancestor := range ancestors {
			if ancestor.ID == *childID {
				return apperrors.ErrCircularCategoryReference
			}
		}
		inSubtree, height, err := v.subtreeScan(*childID, proposedParentID)
		if err != nil {
			return err
		}
		if inSubtree {
			return apperrors.ErrCircularCategoryReference
		}
		subtreeHeight = height
	}

	// The parent sits at level len(ancestors); the child would sit one
	// below, and its deepest descendant subtreeHeight levels below that.
	if len(ancestors)+1+subtreeHeight >= maxCategoryDepth {
		return apperrors.ErrCategoryDepthExceeded
	}

	return nil
}

// ancestorsOf walks the parent chain upward from the given category,
// returning its ancestors in order. The walk is iterative over id lookups
// rather than loaded object references, and revisiting a node (possible only
// on corrupt data) is reported as a circular reference instead of looping.
func (v *HierarchyValidator) ancestorsOf(category *models.Category) ([]*models.Category, error) {
	var ancestors []*models.Category
	visited := map[string]bool{category.ID: true}

	current := category
	for current.ParentID != nil {
		if visited[*current.ParentID] {
			return nil, apperrors.ErrCircularCategoryReference
		}
		next, err := v.store.Get(*current.ParentID)
		if err != nil {
			// A concurrently deleted ancestor surfaces as a reportable
			// validation failure, not a crash.
			if isCategoryNotFound(err) {
				return nil, apperrors.ErrParentCategoryNotFound
			}
			return nil, err
		}
		visited[next.ID] = true
		ancestors = append(ancestors, next)
		current = next
	}

	return ancestors, nil
}

// subtreeScan walks the descendant set of rootID breadth-first, reporting
// whether targetID appears in it and how many levels the subtree extends
// below rootID. It short-circuits as soon as targetID is found, since the
// caller rejects the move outright in that case.
func (v *HierarchyValidator) subtreeScan(rootID, targetID string) (bool, int, error) {
	type entry struct {
		id    string
		level int
	}
	visited := map[string]bool{rootID: true}
	queue := []entry{{rootID, 0}}
	height := 0

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		children, err := v.store.GetChildren(e.id)
		if err != nil {
			return false, 0, err
		}
		for _, child := range children {
			if child.ID == targetID {
				return true, 0, nil
			}
			if !visited[child.ID] {
				visited[child.ID] = true
				if e.level+1 > height {
					height = e.level + 1
				}
				queue = append(queue, entry{child.ID, e.level + 1})
			}
		}
	}

	return false, height, nil
}

// isCategoryNotFound reports whether err is the store's not-found condition.
func isCategoryNotFound(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrCategoryNotFound.Code
}
