package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// BlockHandler handles RPM block requests
type BlockHandler struct {
	blocks  repository.BlockRepository
	actions repository.ActionRepository
}

// NewBlockHandler creates a new block handler
func NewBlockHandler(blocks repository.BlockRepository, actions repository.ActionRepository) *BlockHandler {
	return &BlockHandler{blocks: blocks, actions: actions}
}

// attachBlockActions loads a block's massive action plan onto it. The
// client always renders block.actions, so an empty plan is an empty
// slice rather than a missing key.
func attachBlockActions(ctx context.Context, actions repository.ActionRepository, block *domain.Block) {
	block.Actions = []*domain.Action{}
	if items, err := actions.ListByBlock(ctx, block.ID); err == nil && items != nil {
		block.Actions = items
	}
}

// List returns blocks with their actions nested, the shape the block
// boards render from.
func (h *BlockHandler) List(c *gin.Context) {
	filter := repository.BlockFilter{
		CategoryID: c.Query("category_id"),
		ProjectID:  c.Query("project_id"),
	}

	items, err := h.blocks.List(c.Request.Context(), userID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Block{}
	}
	for _, block := range items {
		attachBlockActions(c.Request.Context(), h.actions, block)
	}
	c.JSON(http.StatusOK, items)
}

// Get returns a block together with its massive action plan
func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.blocks.GetByID(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	attachBlockActions(c.Request.Context(), h.actions, block)

	c.JSON(http.StatusOK, block)
}

func (h *BlockHandler) Create(c *gin.Context) {
	var req dto.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Result title is required"))
		return
	}

	block, err := h.blocks.Create(c.Request.Context(), userID(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) Patch(c *gin.Context) {
	var patch dto.BlockPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}

	block, err := h.blocks.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *BlockHandler) Delete(c *gin.Context) {
	if err := h.blocks.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
