package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"weband-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(mw.RateLimiter(h.cfg.Server.RateLimitPerSec, h.cfg.Server.RateLimitBurst))

	authTTL := time.Duration(h.cfg.Server.AuthCacheTTLSeconds) * time.Second
	userCache := cache.New(authTTL, 2*authTTL)
	authed := mw.RequireAuth(h.tokens, h.store, userCache, authTTL)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/kakao", h.RedirectToKakao)
		authGroup.POST("/kakao-login", h.KakaoLogin)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/logout", authed, h.Logout)
		authGroup.DELETE("/withdraw", authed, h.Withdraw)
	}

	r.GET("/me", authed, h.GetMe)

	calendarGroup := r.Group("/calendar", authed)
	{
		calendarGroup.GET("/week", h.GetWeek)
		calendarGroup.POST("/week", h.SaveWeek)
	}

	meets := r.Group("/meets", authed)
	{
		meets.POST("", h.CreateMeet)
		meets.GET("", h.ListMeets)
		meets.GET("/:meetId", h.MeetDetail)
		meets.PATCH("/:meetId", h.RenameMeet)
		meets.DELETE("/:meetId", h.DeleteMeet)
		meets.POST("/:meetId/join", h.JoinMeet)
		meets.DELETE("/:meetId/exit/:userId", h.ExitMeet)
	}

	return r
}
