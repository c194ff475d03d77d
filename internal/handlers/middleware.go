package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

const ctxUserID = "userID"

// AuthRequired accepts the access token as a bearer header or the
// accessToken cookie and puts the user id on the request context.
func AuthRequired(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tok string
		if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			tok = strings.TrimPrefix(ah, "Bearer ")
		}
		if tok == "" {
			if v, err := c.Cookie("accessToken"); err == nil {
				tok = v
			}
		}
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		uid, err := tokens.ParseAccessToken(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(ctxUserID, uid)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.Profile(c.Request.Context(), userID(c))
		if err != nil || u.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) uint {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(uint)
	return id
}
