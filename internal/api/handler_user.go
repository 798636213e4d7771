package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weband-backend/internal/mw"
)

// GetMe handles the GET /me request.
func (h *Handler) GetMe(c *gin.Context) {
	user := mw.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"userId":     user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"profileImg": user.ProfileImg,
	})
}
