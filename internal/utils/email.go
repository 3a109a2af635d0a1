package utils

import (
	"context"
	"fmt"
	"log"

	"cloudscale_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

// MailConfig regroupe les paramètres SMTP
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer envoie les e-mails transactionnels de la boutique
type Mailer struct {
	cfg MailConfig
}

// NewMailer renvoie nil si SMTP_HOST n'est pas configuré
func NewMailer(cfg MailConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = "noreply@cloudscale.com"
	}
	return &Mailer{cfg: cfg}
}

// OrderMailLine est une ligne de la commande telle qu'affichée dans l'e-mail
type OrderMailLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l OrderMailLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := m.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}

// SendOrderConfirmation envoie le récapitulatif d'une commande passée
func (m *Mailer) SendOrderConfirmation(ctx context.Context, user models.User, order models.Order, lines []OrderMailLine) error {
	html, err := RenderOrderConfirmationHTML(user, order, lines)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("✅ Commande #%d confirmée - CloudScale", order.ID)
	if err := m.send(ctx, user.Email, subject, html); err != nil {
		return fmt.Errorf("e-mail confirmation commande %d: %w", order.ID, err)
	}
	log.Printf("📧 Email de confirmation envoyé: %s (commande: %d)", user.Email, order.ID)
	return nil
}

// SendWelcome envoie l'e-mail de bienvenue après inscription
func (m *Mailer) SendWelcome(ctx context.Context, user models.User) error {
	html, err := RenderWelcomeHTML(user)
	if err != nil {
		return err
	}
	if err := m.send(ctx, user.Email, "🎉 Bienvenue sur CloudScale !", html); err != nil {
		return fmt.Errorf("e-mail bienvenue %s: %w", user.Email, err)
	}
	log.Printf("📧 Email de bienvenue envoyé: %s", user.Email)
	return nil
}
