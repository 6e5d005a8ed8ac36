package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/voltride/fieldops_backend/utils"
	"github.com/gin-gonic/gin"
)

// AgentAuth validates the bearer token and stashes the agent identity in the
// request context. Routes behind this middleware can assume an agent id.
func AgentAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = strings.TrimPrefix(auth, "Bearer ")

		validated, err := utils.JwtValidate(auth)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || claim.Role != "agent" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), auth)
		ctx = utils.SetAgentIdInContext(ctx, claim.ID)
		ctx = utils.SetAgentNameInContext(ctx, claim.Name)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OpsAuth guards the internal ops surface with a shared key header.
func OpsAuth(opsKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opsKey == "" || c.Request.Header.Get("x-ops-key") != opsKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		ctx := utils.SetIsOpsInContext(c.Request.Context(), true)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
