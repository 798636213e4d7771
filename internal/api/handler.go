package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"weband-backend/config"
	"weband-backend/internal/auth"
	"weband-backend/internal/calendar"
	"weband-backend/internal/errs"
	"weband-backend/internal/meet"
	"weband-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	cfg      *config.Config
	store    store.Store
	calendar *calendar.Service
	meets    *meet.Service
	tokens   *auth.TokenService
	kakao    *auth.KakaoClient
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, s store.Store, cal *calendar.Service, meets *meet.Service, tokens *auth.TokenService, kakao *auth.KakaoClient) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    s,
		calendar: cal,
		meets:    meets,
		tokens:   tokens,
		kakao:    kakao,
	}
}

// respondError maps the service error taxonomy onto transport
// statuses. Validation problems are the caller's fault; a codec
// failure on stored data is corruption and reports as a server error,
// never as empty availability.
func respondError(c *gin.Context, err error) {
	var validation *errs.ValidationError
	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Msg})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, meet.ErrNotOwner):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "only the meet owner may do this"})
	case errors.Is(err, meet.ErrOwnerRemoval):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "the meet owner cannot be removed"})
	default:
		log.Printf("internal error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
