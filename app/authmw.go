package app

import (
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/lifecycle"
	"Gin_postgres_redis_club_equipment/models"
	"Gin_postgres_redis_club_equipment/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// CurrentUser returns the user set by AuthRequired, nil outside it.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// AuthRequired resolves the session cookie to a live user and stashes the
// user on the context. Downstream handlers read it via CurrentUser.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在（只查一次），整个 user 放进 Context
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("user", u)
		c.Set("userID", u.ID)
		c.Set("username", u.Username)

		c.Next()
	}
}

// ManageInventoryOnly gates admin/chair route groups. The repo re-checks the
// capability before each write; this just fails fast at the HTTP boundary.
func ManageInventoryOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !lifecycle.CanManageInventory(u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
