package services

import (
	"context"
	"errors"
	"log"
	"time"

	"cloudscale_back_end/internal/models"
	"cloudscale_back_end/internal/utils"
)

var (
	ErrValidation   = errors.New("données invalides")
	ErrUnauthorized = errors.New("identifiants invalides")
	ErrNotFound     = errors.New("ressource introuvable")
	ErrConflict     = errors.New("ressource déjà existante")
	ErrEmptyCart    = errors.New("le panier est vide")
)

// Notifier envoie les e-mails transactionnels; utils.Mailer l'implémente
type Notifier interface {
	SendWelcome(ctx context.Context, user models.User) error
	SendOrderConfirmation(ctx context.Context, user models.User, order models.Order, lines []utils.OrderMailLine) error
	SendOrderStatus(ctx context.Context, user models.User, order models.Order) error
}

const notifyTimeout = 30 * time.Second

// notifyAsync n'attend pas le serveur SMTP: un échec est seulement journalisé
func notifyAsync(what string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Printf("⚠️ Envoi e-mail %s: %v", what, err)
		}
	}()
}
