package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// ProjectHandler handles project requests
type ProjectHandler struct {
	projects   repository.ProjectRepository
	categories repository.CategoryRepository
	keyResults repository.KeyResultRepository
	capture    repository.CaptureRepository
	blocks     repository.BlockRepository
	actions    repository.ActionRepository
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projects repository.ProjectRepository,
	categories repository.CategoryRepository,
	keyResults repository.KeyResultRepository,
	capture repository.CaptureRepository,
	blocks repository.BlockRepository,
	actions repository.ActionRepository,
) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		categories: categories,
		keyResults: keyResults,
		capture:    capture,
		blocks:     blocks,
		actions:    actions,
	}
}

// projectDetail is the composite document the project page renders from
// a single request.
type projectDetail struct {
	*domain.Project
	KeyResults       []*domain.KeyResult       `json:"key_results"`
	CaptureItems     []*domain.CaptureItem     `json:"capture_items"`
	Blocks           []*domain.Block           `json:"rpm_blocks"`
	Actions          []*domain.Action          `json:"actions"`
	InspirationItems []*domain.InspirationItem `json:"inspiration_items"`
}

func (h *ProjectHandler) List(c *gin.Context) {
	filter := repository.ProjectFilter{
		CategoryID: c.Query("category_id"),
		Starred:    c.Query("starred") == "true",
	}

	items, err := h.projects.List(c.Request.Context(), userID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Project{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	project, err := h.projects.GetByID(ctx, c.Param("id"), uid)
	if err != nil {
		writeError(c, err)
		return
	}

	detail := &projectDetail{
		Project:          project,
		KeyResults:       []*domain.KeyResult{},
		CaptureItems:     []*domain.CaptureItem{},
		Blocks:           []*domain.Block{},
		Actions:          []*domain.Action{},
		InspirationItems: []*domain.InspirationItem{},
	}

	if items, err := h.keyResults.ListByProject(ctx, project.ID); err == nil && items != nil {
		detail.KeyResults = items
	}
	if items, err := h.capture.List(ctx, uid, project.ID); err == nil && items != nil {
		detail.CaptureItems = items
	}
	if items, err := h.blocks.List(ctx, uid, repository.BlockFilter{ProjectID: project.ID}); err == nil && items != nil {
		for _, block := range items {
			attachBlockActions(ctx, h.actions, block)
		}
		detail.Blocks = items
	}
	if items, err := h.actions.List(ctx, uid, repository.ActionFilter{ProjectID: project.ID}); err == nil && items != nil {
		detail.Actions = items
	}
	if items, err := h.projects.ListInspiration(ctx, project.ID); err == nil && items != nil {
		detail.InspirationItems = items
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Category and name are required"))
		return
	}

	ok, err := h.categories.Exists(c.Request.Context(), req.CategoryID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, apperr.Validation("Invalid category"))
		return
	}

	project := &domain.Project{
		UserID:          userID(c),
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		UltimateResult:  req.UltimateResult,
		UltimatePurpose: req.UltimatePurpose,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
		StartDate:       parseDate(req.StartDate),
		EndDate:         parseDate(req.EndDate),
	}

	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Patch(c *gin.Context) {
	var patch dto.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}

	project, err := h.projects.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *ProjectHandler) ListInspiration(c *gin.Context) {
	if _, err := h.projects.GetByID(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}

	items, err := h.projects.ListInspiration(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.InspirationItem{}
	}
	c.JSON(http.StatusOK, items)
}

// parseDate accepts YYYY-MM-DD date strings from create payloads
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
