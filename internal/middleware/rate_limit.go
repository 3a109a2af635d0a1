package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloudscale_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// RateLimiter applique les limites anti-abus sur le Cache (Redis ou mémoire)
type RateLimiter struct {
	cache cache.Cache
}

func NewRateLimiter(c cache.Cache) *RateLimiter {
	return &RateLimiter{cache: c}
}

// rejectIfCooling renvoie true et répond 429 si la clé de cooldown est posée
func (rl *RateLimiter) rejectIfCooling(c *gin.Context, cooldownKey, message string) bool {
	ttl, err := rl.cache.TTL(c.Request.Context(), cooldownKey)
	if errors.Is(err, cache.ErrMiss) {
		return false
	}
	if err != nil {
		// limiteur indisponible: la requête passe
		log.Printf("⚠️ Rate limit indisponible: %v", err)
		return false
	}

	minutes := int(ttl.Minutes()) + 1
	c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message":     fmt.Sprintf(message, minutes),
		"retry_after": int(ttl.Seconds()),
	})
	return true
}

// count incrémente le compteur et pose le cooldown quand limit est atteint
func (rl *RateLimiter) count(c *gin.Context, key, cooldownKey string, limit int64, cooldown time.Duration) int64 {
	ctx := c.Request.Context()
	n, err := rl.cache.Incr(ctx, key, cooldown)
	if err != nil {
		log.Printf("⚠️ Rate limit indisponible: %v", err)
		return 0
	}
	if n >= limit {
		if err := rl.cache.Set(ctx, cooldownKey, "1", cooldown); err != nil {
			log.Printf("⚠️ Pose du cooldown %s: %v", cooldownKey, err)
		}
		rl.cache.Del(ctx, key)
	}
	return n
}

// LoginRateLimit bloque un email pendant 15 minutes après 5 échecs de connexion
func (rl *RateLimiter) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if rl.rejectIfCooling(c, cooldownKey, "Trop de tentatives échouées. Réessayez dans %d minutes") {
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			if n := rl.count(c, key, cooldownKey, LoginMaxAttempts, LoginCooldown); n > 0 && n < LoginMaxAttempts {
				log.Printf("🔒 Échec de connexion %d/%d pour %s", n, LoginMaxAttempts, email)
			}
		case http.StatusOK:
			// Login réussi, réinitialiser les tentatives
			rl.cache.Del(c.Request.Context(), key)
		}
	}
}

// RegisterRateLimit limite les inscriptions réussies par IP
func (rl *RateLimiter) RegisterRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip

		if rl.rejectIfCooling(c, cooldownKey, "Trop d'inscriptions. Réessayez dans %d minutes") {
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK || c.Writer.Status() == http.StatusCreated {
			rl.count(c, key, cooldownKey, RegisterMaxAttempts, RegisterCooldown)
		}
	}
}
