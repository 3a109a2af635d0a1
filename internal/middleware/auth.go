package middleware

import (
	"net/http"
	"strings"

	"cloudscale_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const contextTokenAuth = "token_auth"

// TokenAuthenticated indique que l'utilisateur vient du jeton Bearer et non de la session
func TokenAuthenticated(c *gin.Context) bool {
	return c.GetBool(contextTokenAuth)
}

// Identify accepte un jeton Bearer quand la session n'est pas authentifiée.
// Un jeton invalide est ignoré ici: AuthRequired renverra 401.
func Identify(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseJWT(strings.TrimSpace(tokenString), secret)
		if err == nil {
			c.Set(ContextUserID, claims.UserID)
			c.Set(contextTokenAuth, true)
		}
		c.Next()
	}
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non authentifié"})
			return
		}
		c.Next()
	}
}
