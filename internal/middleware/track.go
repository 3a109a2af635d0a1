package middleware

import (
	"log"

	"cloudscale_back_end/internal/tracker"

	"github.com/gin-gonic/gin"
)

// TrackSession signale chaque requête au tracker; une erreur n'interrompt pas la requête.
// Seules les sessions cookie comptent: un jeton Bearer n'a pas de session durable,
// et un identifiant tout juste créé n'est retenu que lorsque le client le renvoie.
func TrackSession(tr *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		visit := tracker.Visit{
			SessionID: SessionID(c),
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if uid, ok := CurrentUserID(c); ok && !TokenAuthenticated(c) {
			visit.UserID = &uid
		}
		if visit.UserID == nil && FreshSession(c) {
			c.Next()
			return
		}
		if err := tr.Touch(c.Request.Context(), visit); err != nil {
			log.Printf("⚠️ Suivi de session %s: %v", visit.SessionID, err)
		}
		c.Next()
	}
}
