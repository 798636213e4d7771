package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weband-backend/internal/meet"
	"weband-backend/internal/mw"
	"weband-backend/internal/store"
)

type createMeetRequest struct {
	MeetName string `json:"meetName" binding:"required"`
	MeetDate string `json:"meetDate" binding:"required"`
}

// CreateMeet handles POST /meets.
func (h *Handler) CreateMeet(c *gin.Context) {
	var req createMeetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetName and meetDate are required"})
		return
	}

	user := mw.CurrentUser(c)
	meetID, err := h.meets.Create(c.Request.Context(), user.ID, req.MeetName, req.MeetDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "meet created",
		"meetId":  meetID,
	})
}

// ListMeets handles GET /meets.
func (h *Handler) ListMeets(c *gin.Context) {
	user := mw.CurrentUser(c)
	summaries, err := h.meets.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if summaries == nil {
		summaries = []meet.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"meets": summaries})
}

// JoinMeet handles POST /meets/:meetId/join. A missing group means the
// invite code is bad; joining twice is answered kindly, not as an
// error.
func (h *Handler) JoinMeet(c *gin.Context) {
	meetID, ok := meetIDParam(c)
	if !ok {
		return
	}

	user := mw.CurrentUser(c)
	already, err := h.meets.Join(c.Request.Context(), user.ID, meetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite code"})
			return
		}
		respondError(c, err)
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "already a member of this meet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "joined the meet",
		"meetId":  meetID,
	})
}

// MeetDetail handles GET /meets/:meetId, returning the meeting's
// member availability matrix over its 7-day window.
func (h *Handler) MeetDetail(c *gin.Context) {
	meetID, ok := meetIDParam(c)
	if !ok {
		return
	}

	user := mw.CurrentUser(c)
	detail, err := h.meets.Detail(c.Request.Context(), user.ID, meetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type renameMeetRequest struct {
	MeetName string `json:"meetName" binding:"required"`
}

// RenameMeet handles PATCH /meets/:meetId. Owner only.
func (h *Handler) RenameMeet(c *gin.Context) {
	meetID, ok := meetIDParam(c)
	if !ok {
		return
	}

	var req renameMeetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetName is required"})
		return
	}

	user := mw.CurrentUser(c)
	updated, err := h.meets.Rename(c.Request.Context(), user.ID, meetID, req.MeetName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "meet renamed",
		"meetId":   updated.MeetID,
		"meetName": updated.MeetName,
	})
}

// DeleteMeet handles DELETE /meets/:meetId. Owner only; memberships go
// with the group in one transaction.
func (h *Handler) DeleteMeet(c *gin.Context) {
	meetID, ok := meetIDParam(c)
	if !ok {
		return
	}

	user := mw.CurrentUser(c)
	if err := h.meets.Delete(c.Request.Context(), user.ID, meetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meet deleted"})
}

// ExitMeet handles DELETE /meets/:meetId/exit/:userId: self-leave, or
// a kick when the caller owns the meet.
func (h *Handler) ExitMeet(c *gin.Context) {
	meetID, ok := meetIDParam(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user := mw.CurrentUser(c)
	self, err := h.meets.Remove(c.Request.Context(), user.ID, meetID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "member kicked from the meet"
	if self {
		message = "left the meet"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"removedUserId": targetID,
	})
}

func meetIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("meetId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meet id"})
		return 0, false
	}
	return id, true
}
