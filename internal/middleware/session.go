package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName   = "cloudscale.sid"
	SessionMaxAge = 30 * 60

	// clés du contexte gin
	ContextSessionID = "session_id"
	ContextUserID    = "user_id"
	contextSession   = "session"
	contextFresh     = "session_fresh"

	// clés stockées dans le cookie
	valueSessionID = "sid"
	valueUserID    = "uid"
)

// NewSessionStore crée le store de cookies signés (30 minutes, HttpOnly)
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Sessions charge la session du cookie et lui attribue un identifiant si besoin.
// Le cookie est réécrit à chaque requête: l'expiration glisse avec l'activité.
func Sessions(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// un cookie illisible donne une session neuve
		sess, _ := store.Get(c.Request, SessionName)

		sid, _ := sess.Values[valueSessionID].(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Values[valueSessionID] = sid
			c.Set(contextFresh, true)
		}
		if err := sess.Save(c.Request, c.Writer); err != nil {
			log.Printf("⚠️ Enregistrement session: %v", err)
		}

		c.Set(contextSession, sess)
		c.Set(ContextSessionID, sid)
		if uid, ok := sess.Values[valueUserID].(int64); ok && uid > 0 {
			c.Set(ContextUserID, uid)
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) (*sessions.Session, error) {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil, errors.New("middleware Sessions absent")
	}
	return v.(*sessions.Session), nil
}

// SessionID renvoie l'identifiant de la session courante
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

// FreshSession indique que l'identifiant vient d'être créé pour cette requête (pas de cookie reçu)
func FreshSession(c *gin.Context) bool {
	return c.GetBool(contextFresh)
}

// CurrentUserID renvoie l'utilisateur authentifié (session ou Bearer)
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(int64)
	return uid, ok && uid > 0
}

// LoginSession attache l'utilisateur à une nouvelle session (nouvel identifiant)
func LoginSession(c *gin.Context, userID int64) (string, error) {
	sess, err := currentSession(c)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	sess.Values[valueSessionID] = sid
	sess.Values[valueUserID] = userID
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	c.Set(ContextSessionID, sid)
	c.Set(ContextUserID, userID)
	return sid, nil
}

// LogoutSession détruit la session et efface le cookie
func LogoutSession(c *gin.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	delete(sess.Values, valueUserID)
	delete(sess.Values, valueSessionID)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}
