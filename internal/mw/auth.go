package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"weband-backend/internal/auth"
	"weband-backend/internal/model"
	"weband-backend/internal/store"
)

// userKey is the gin context key the authenticated user is stored
// under.
const userKey = "user"

// RequireAuth verifies the bearer access token, re-checks that the
// account still exists, and injects the user into the context. A small
// token cache skips the DB lookup for tokens seen recently; its TTL is
// well below the access token lifetime, so a deleted account stops
// resolving quickly.
func RequireAuth(tokens *auth.TokenService, s store.Store, userCache *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}

		if cached, found := userCache.Get(token); found {
			c.Set(userKey, cached.(model.User))
			c.Next()
			return
		}

		claims, err := tokens.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired access token"})
			return
		}

		user, err := s.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		userCache.Set(token, user, ttl)
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user injected by RequireAuth.
func CurrentUser(c *gin.Context) model.User {
	return c.MustGet(userKey).(model.User)
}
