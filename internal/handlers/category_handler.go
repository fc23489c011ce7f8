package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required,max=100"`
	Type     models.CategoryType `json:"type" binding:"required,category_type"`
	Color    string              `json:"color" binding:"omitempty,hex_color"`
	ParentID *string             `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest represents the request payload for updating a
// category. Omitted fields are left unchanged; an empty parent_id detaches
// the category from its parent.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Color    *string `json:"color" binding:"omitempty,hex_color"`
	ParentID *string `json:"parent_id"`
}

// listCategoriesQuery holds the query parameters for category listings.
type listCategoriesQuery struct {
	pagination.PageRequest
	Type          string `form:"type" binding:"omitempty,category_type"`
	IncludeGlobal *bool  `form:"include_global"`
}

func (q *listCategoriesQuery) typeFilter() *models.CategoryType {
	if q.Type == "" {
		return nil
	}
	t := models.CategoryType(q.Type)
	return &t
}

func (q *listCategoriesQuery) includeGlobal() bool {
	return q.IncludeGlobal == nil || *q.IncludeGlobal
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new transaction category, optionally nested under a parent of the same type
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} errors.AppError "Invalid input, parent, type mismatch, or depth exceeded"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     409 {object} errors.AppError "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Type, req.Color, req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetUserCategories handles the paginated flat listing of visible categories
// @Summary     List categories
// @Description Get a paginated flat list of categories visible to the user (own plus global)
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by category type (income/expense)"
// @Param       include_global query bool false "Include global system categories (default true)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Category] "Page of categories"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.categoryService.GetUserCategories(userID, query.typeFilter(), query.includeGlobal(), query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

// GetHierarchy handles the tree view of visible categories
// @Summary     Get category hierarchy
// @Description Get the user's categories assembled into trees, each node carrying usage counts
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by category type (income/expense)"
// @Param       include_global query bool false "Include global system categories (default true)"
// @Success     200 {array} services.CategoryNode "Category trees"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Router      /categories/tree [get]
func (h *CategoryHandler) GetHierarchy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	tree, err := h.categoryService.GetHierarchy(userID, query.typeFilter(), query.includeGlobal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a specific category visible to the user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} errors.AppError "Invalid category ID"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     404 {object} errors.AppError "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetDependencies handles the dependency check for a category
// @Summary     Check category dependencies
// @Description Get the transactions, subcategories, and budgets referencing a category and whether it can be deleted
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} services.Dependencies "Dependency counts"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     404 {object} errors.AppError "Category not found"
// @Router      /categories/{id}/dependencies [get]
func (h *CategoryHandler) GetDependencies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deps, err := h.categoryService.CheckDependencies(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dependencies": deps})
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Rename, recolor, or reparent an existing category; type is immutable
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} errors.AppError "Invalid input, parent, type mismatch, cycle, or depth exceeded"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     403 {object} errors.AppError "Global category"
// @Failure     404 {object} errors.AppError "Category not found"
// @Failure     409 {object} errors.AppError "Duplicate name"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, services.CategoryPatch{
		Name:     req.Name,
		Color:    req.Color,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category that has no transactions, subcategories, or budget allocations
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]string "Category deleted"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     403 {object} errors.AppError "Global category"
// @Failure     404 {object} errors.AppError "Category not found"
// @Failure     409 {object} errors.AppError "Category in use (details carry the usage counts)"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
