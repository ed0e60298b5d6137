package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// PlannerHandler serves the calendar view of scheduled actions
type PlannerHandler struct {
	actions repository.ActionRepository
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(actions repository.ActionRepository) *PlannerHandler {
	return &PlannerHandler{actions: actions}
}

// Range returns the actions whose schedule overlaps [start_date, end_date]
func (h *PlannerHandler) Range(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		writeError(c, apperr.Validation("start_date and end_date are required"))
		return
	}
	if !validDate(startDate) || !validDate(endDate) {
		writeError(c, apperr.Validation("Dates must be in YYYY-MM-DD format"))
		return
	}

	items, err := h.actions.ListRange(c.Request.Context(), userID(c), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Action{}
	}
	c.JSON(http.StatusOK, items)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
