package handlers

import (
	"log"
	"net/http"

	"cloudscale_back_end/internal/middleware"
	"cloudscale_back_end/internal/models"
	"cloudscale_back_end/internal/services"
	"cloudscale_back_end/internal/tracker"
	"cloudscale_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type authResponse struct {
	models.Profile
	Token string `json:"token"`
}

// ================== AUTH LOCALE ==================

// 🟢 POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Données d'inscription invalides")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.Auth.Register(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.openSession(c, user)
}

// 🟢 POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Email et mot de passe requis")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.Auth.Login(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.openSession(c, user)
}

// openSession attache l'utilisateur à une session neuve et renvoie profil + jeton
func (h *Handler) openSession(c *gin.Context, user *models.User) {
	sid, err := middleware.LoginSession(c, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	uid := user.ID
	if err := h.Tracker.Bind(c.Request.Context(), tracker.Visit{
		SessionID: sid,
		UserID:    &uid,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}); err != nil {
		log.Printf("⚠️ Enregistrement session %s: %v", sid, err)
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, h.JWTSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Profile: user.Profile(), Token: token})
}

// 🟢 POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	sid := middleware.SessionID(c)
	if sid != "" {
		if err := h.Tracker.Forget(c.Request.Context(), sid); err != nil {
			log.Printf("⚠️ Désactivation session %s: %v", sid, err)
		}
	}
	if err := middleware.LogoutSession(c); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// 🟢 GET /api/me
func (h *Handler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.Auth.Me(ctx, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}
