package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	categories repository.CategoryRepository
	projects   repository.ProjectRepository
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories repository.CategoryRepository, projects repository.ProjectRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories, projects: projects}
}

// categoryDetail is the GET response for a single category: the category
// itself plus its details row and project stats.
type categoryDetail struct {
	*domain.Category
	Details  *domain.CategoryDetails `json:"details"`
	Projects []*domain.Project       `json:"projects"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.categories.List(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Category{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	category, err := h.categories.GetByID(ctx, c.Param("id"), uid)
	if err != nil {
		writeError(c, err)
		return
	}

	detail := &categoryDetail{Category: category, Projects: []*domain.Project{}}

	if details, err := h.categories.GetDetails(ctx, category.ID); err == nil {
		detail.Details = details
	}
	if projects, err := h.projects.List(ctx, uid, repository.ProjectFilter{CategoryID: category.ID}); err == nil && projects != nil {
		detail.Projects = projects
	}

	c.JSON(http.StatusOK, detail)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Name is required"))
		return
	}

	category := &domain.Category{
		UserID:      userID(c),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		CoverImage:  req.CoverImage,
	}

	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Name is required"))
		return
	}

	category := &domain.Category{
		ID:          c.Param("id"),
		UserID:      userID(c),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		CoverImage:  req.CoverImage,
	}

	if err := h.categories.Update(c.Request.Context(), category); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.SoftDelete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// GetDetails returns the long-form planning fields, which may not exist
// yet for older categories.
func (h *CategoryHandler) GetDetails(c *gin.Context) {
	// ownership check before touching the details table
	if _, err := h.categories.GetByID(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}

	details, err := h.categories.GetDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *CategoryHandler) UpsertDetails(c *gin.Context) {
	var req dto.CategoryDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}

	if _, err := h.categories.GetByID(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}

	details, err := h.categories.UpsertDetails(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
