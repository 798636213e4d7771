package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weband-backend/internal/calendar"
	"weband-backend/internal/mw"
)

// GetWeek handles GET /calendar/week?day=YYYY-MM-DD. The response
// always carries seven days starting at the enclosing week's first
// day, zero-filled where nothing is stored.
func (h *Handler) GetWeek(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day parameter is required"})
		return
	}

	user := mw.CurrentUser(c)
	week, err := h.calendar.GetWeek(c.Request.Context(), user.ID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

type saveWeekRequest struct {
	Days []calendar.Day `json:"days" binding:"required"`
}

// SaveWeek handles POST /calendar/week?day=YYYY-MM-DD. The body must
// cover the computed week exactly; persistence is all-or-nothing.
func (h *Handler) SaveWeek(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day parameter is required"})
		return
	}

	var req saveWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days array is required"})
		return
	}

	user := mw.CurrentUser(c)
	startDate, err := h.calendar.SaveWeek(c.Request.Context(), user.ID, day, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "weekly schedule saved",
		"startDate": startDate,
	})
}
