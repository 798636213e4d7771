package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weband-backend/internal/auth"
	"weband-backend/internal/model"
	"weband-backend/internal/mw"
)

const refreshCookie = "refreshToken"

// RedirectToKakao sends the browser to the Kakao consent page.
func (h *Handler) RedirectToKakao(c *gin.Context) {
	c.Redirect(http.StatusFound, h.kakao.AuthRedirectURL())
}

type kakaoLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// KakaoLogin finishes the OAuth dance: code -> Kakao profile -> user
// upsert -> token pair. The refresh token also lands in an HTTP-only
// cookie.
func (h *Handler) KakaoLogin(c *gin.Context) {
	var req kakaoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code is required"})
		return
	}

	profile, err := h.kakao.Exchange(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrNoEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kakao email consent is required"})
			return
		}
		respondError(c, err)
		return
	}

	user, err := h.store.UpsertUser(c.Request.Context(), model.User{
		KakaoID:    profile.KakaoID,
		Email:      profile.Email,
		Name:       profile.Nickname,
		ProfileImg: profile.ProfileImg,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, err := h.tokens.IssueAccess(user)
	if err != nil {
		respondError(c, err)
		return
	}
	refreshToken, err := h.tokens.IssueRefresh(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, refreshToken, int(h.cfg.JWT.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken trades a valid refresh cookie for a new access token.
// The account is re-checked so revoked users cannot keep refreshing.
func (h *Handler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token required"})
		return
	}

	claims, err := h.tokens.ParseRefresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	accessToken, err := h.tokens.IssueAccess(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout expires the refresh cookie. Access tokens simply age out.
func (h *Handler) Logout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Withdraw deletes the calling account and expires the cookie.
func (h *Handler) Withdraw(c *gin.Context) {
	user := mw.CurrentUser(c)
	if err := h.store.DeleteUser(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", true, true)
}
