package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/middleware"
	"cloudscale_back_end/internal/realtime"
	"cloudscale_back_end/internal/services"
	"cloudscale_back_end/internal/tracker"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

// Deps regroupe ce dont les handlers ont besoin; construit par cmd/server
type Deps struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Cart      *services.CartService
	Addresses *services.AddressService
	Orders    *services.OrderService

	Store     database.Store
	Tracker   *tracker.Tracker
	Hub       *realtime.Hub
	JWTSecret string
}

type Handler struct {
	Deps
}

func New(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// userID est toujours présent derrière AuthRequired
func userID(c *gin.Context) int64 {
	id, _ := middleware.CurrentUserID(c)
	return id
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// respondError traduit une erreur de service en statut HTTP
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Identifiants invalides"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne du serveur"})
	}
}
