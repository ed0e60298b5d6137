package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// ActionHandler handles action requests
type ActionHandler struct {
	actions repository.ActionRepository
}

// NewActionHandler creates a new action handler
func NewActionHandler(actions repository.ActionRepository) *ActionHandler {
	return &ActionHandler{actions: actions}
}

func (h *ActionHandler) List(c *gin.Context) {
	filter := repository.ActionFilter{
		CategoryID: c.Query("category_id"),
		ProjectID:  c.Query("project_id"),
		BlockID:    c.Query("block_id"),
		Starred:    c.Query("starred") == "true",
		ThisWeek:   c.Query("this_week") == "true",
	}
	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	items, err := h.actions.List(c.Request.Context(), userID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Action{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *ActionHandler) Get(c *gin.Context) {
	action, err := h.actions.GetByID(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) Create(c *gin.Context) {
	var req dto.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Title is required"))
		return
	}

	action, err := h.actions.Create(c.Request.Context(), userID(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

func (h *ActionHandler) Patch(c *gin.Context) {
	var patch dto.ActionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}
	if patch.Empty() {
		writeError(c, apperr.Validation("No valid fields to update"))
		return
	}

	action, err := h.actions.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) Duplicate(c *gin.Context) {
	action, err := h.actions.Duplicate(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

func (h *ActionHandler) Delete(c *gin.Context) {
	if err := h.actions.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
