package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// CaptureHandler handles capture inbox requests
type CaptureHandler struct {
	capture repository.CaptureRepository
}

// NewCaptureHandler creates a new capture handler
func NewCaptureHandler(capture repository.CaptureRepository) *CaptureHandler {
	return &CaptureHandler{capture: capture}
}

func (h *CaptureHandler) List(c *gin.Context) {
	items, err := h.capture.List(c.Request.Context(), userID(c), c.Query("project_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.CaptureItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *CaptureHandler) Create(c *gin.Context) {
	var req dto.CreateCaptureItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Title is required"))
		return
	}

	item, err := h.capture.Create(c.Request.Context(), userID(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CaptureHandler) Patch(c *gin.Context) {
	var patch dto.CaptureItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}

	item, err := h.capture.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CaptureHandler) Delete(c *gin.Context) {
	if err := h.capture.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
