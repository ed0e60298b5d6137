package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// PersonHandler handles person requests
type PersonHandler struct {
	persons repository.PersonRepository
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(persons repository.PersonRepository) *PersonHandler {
	return &PersonHandler{persons: persons}
}

func (h *PersonHandler) List(c *gin.Context) {
	items, err := h.persons.List(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Person{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("Name is required"))
		return
	}

	person := &domain.Person{
		UserID: userID(c),
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Avatar: req.Avatar,
		Notes:  req.Notes,
	}

	if err := h.persons.Create(c.Request.Context(), person); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

func (h *PersonHandler) Patch(c *gin.Context) {
	var patch dto.PersonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return
	}

	person, err := h.persons.Patch(c.Request.Context(), c.Param("id"), userID(c), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.persons.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
