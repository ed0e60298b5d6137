package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// KeyResultHandler handles key result requests
type KeyResultHandler struct {
	keyResults repository.KeyResultRepository
	projects   repository.ProjectRepository
}

// NewKeyResultHandler creates a new key result handler
func NewKeyResultHandler(keyResults repository.KeyResultRepository, projects repository.ProjectRepository) *KeyResultHandler {
	return &KeyResultHandler{keyResults: keyResults, projects: projects}
}

// ListByProject returns a project's key results after an ownership check
func (h *KeyResultHandler) ListByProject(c *gin.Context) {
	projectID := c.Param("id")

	ok, err := h.projects.Exists(c.Request.Context(), projectID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, apperr.NotFound("Project not found"))
		return
	}

	items, err := h.keyResults.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.KeyResult{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *KeyResultHandler) Create(c *gin.Context) {
	var req dto.CreateKeyResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Project and title are required"))
		return
	}

	ok, err := h.projects.Exists(c.Request.Context(), req.ProjectID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, apperr.Validation("Invalid project"))
		return
	}

	result, err := h.keyResults.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *KeyResultHandler) Patch(c *gin.Context) {
	var patch dto.KeyResultPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}
	if patch.Empty() {
		writeError(c, apperr.Validation("No valid fields to update"))
		return
	}

	result, err := h.keyResults.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *KeyResultHandler) Delete(c *gin.Context) {
	if err := h.keyResults.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
