package utils

import (
	"strings"
	"testing"
	"time"

	"cloudscale_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))

	ok, err := VerifyPassword("password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerifyLegacyArgon2Hash(t *testing.T) {
	// format argon2id reconnu, empreinte volontairement fausse
	salt := "MDEyMzQ1Njc4OWFiY2RlZg"
	ok, err := VerifyPassword("secret", "$argon2id$v=19$m=32768,t=1,p=4$"+salt+"$AAAA")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("secret", "$argon2id$broken")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "demo@cloudscale.com", "s3cret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "demo@cloudscale.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)

	_, err = ParseJWT(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseJWT(signed, "k")
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1})
	signed, err = hs512.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseJWT(signed, "k")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRenderOrderConfirmation(t *testing.T) {
	user := models.User{Username: "demo", FirstName: "Demo", Email: "demo@cloudscale.com"}
	order := models.Order{ID: 7, Status: models.OrderPending, TotalAmount: decimal.RequireFromString("1987")}
	lines := []OrderMailLine{
		{Name: "Premium Smartphone", Quantity: 2, UnitPrice: decimal.RequireFromString("899.00")},
		{Name: "Wireless Charger <fast>", Quantity: 3, UnitPrice: decimal.RequireFromString("59.00")},
	}

	html, err := RenderOrderConfirmationHTML(user, order, lines)
	require.NoError(t, err)
	assert.Contains(t, html, "#7")
	assert.Contains(t, html, "Bonjour Demo")
	assert.Contains(t, html, "$1798.00")
	assert.Contains(t, html, "$177.00")
	assert.Contains(t, html, "$1987.00")
	assert.Contains(t, html, "Wireless Charger &lt;fast&gt;")
}

func TestRenderWelcomeAndStatus(t *testing.T) {
	html, err := RenderWelcomeHTML(models.User{Username: "alice"})
	require.NoError(t, err)
	assert.Contains(t, html, "Bonjour alice")

	html, err = RenderOrderStatusHTML(models.Order{ID: 3, Status: models.OrderCancelled, TotalAmount: decimal.RequireFromString("10")})
	require.NoError(t, err)
	assert.Contains(t, html, "#ef4444")
	assert.Contains(t, html, "$10.00")
	assert.True(t, strings.Contains(html, "annulée"))
}

func TestNewMailerDisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(MailConfig{}))

	m := NewMailer(MailConfig{Host: "smtp.example.com"})
	require.NotNil(t, m)
	assert.Equal(t, 587, m.cfg.Port)

	msg, err := m.buildMessage("demo@cloudscale.com", "Sujet", "<p>x</p>")
	require.NoError(t, err)
	to := msg.GetTo()
	require.Len(t, to, 1)
	assert.Equal(t, "demo@cloudscale.com", to[0].Address)
}
