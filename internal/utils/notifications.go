package utils

import (
	"context"
	"fmt"
	"html/template"
	"log"

	"cloudscale_back_end/internal/models"
)

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Mise à jour de commande</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
    <div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <div style="background-color: {{.Color}}; padding: 40px 30px; text-align: center; border-radius: 12px 12px 0 0;">
            <h1 style="margin: 0; color: #ffffff;">{{.Icon}} Commande #{{.OrderID}}</h1>
            <p style="margin: 10px 0 0 0; color: #ffffff;">Statut: {{.Status}}</p>
        </div>
        <div style="padding: 30px; color: #333333; line-height: 1.6;">
            <p>{{.Message}}</p>
            <p>Montant: <strong>${{.Total}}</strong></p>
        </div>
    </div>
</body>
</html>`))

// SendOrderStatus prévient le client d'un changement de statut
func (m *Mailer) SendOrderStatus(ctx context.Context, user models.User, order models.Order) error {
	html, err := RenderOrderStatusHTML(order)
	if err != nil {
		return err
	}
	if err := m.send(ctx, user.Email, getStatusEmailSubject(order.Status), html); err != nil {
		return fmt.Errorf("e-mail statut commande %d: %w", order.ID, err)
	}
	log.Printf("📧 Email de statut envoyé: %s → %s", order.Status, user.Email)
	return nil
}

func RenderOrderStatusHTML(order models.Order) (string, error) {
	return render(statusTemplate, map[string]interface{}{
		"OrderID": order.ID,
		"Status":  order.Status,
		"Message": getStatusMessage(order.Status),
		"Icon":    getStatusIcon(order.Status),
		"Color":   template.CSS(getStatusColor(order.Status)),
		"Total":   order.TotalAmount.StringFixed(2),
	})
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.OrderProcessing:
		return "⚙️ Commande en préparation - CloudScale"
	case models.OrderShipped:
		return "📦 Votre commande a été expédiée - CloudScale"
	case models.OrderDelivered:
		return "🎉 Votre commande a été livrée - CloudScale"
	case models.OrderCancelled:
		return "❌ Commande annulée - CloudScale"
	default:
		return "📋 Mise à jour de votre commande - CloudScale"
	}
}

func getStatusMessage(status string) string {
	switch status {
	case models.OrderProcessing:
		return "Nous préparons votre commande."
	case models.OrderShipped:
		return "Bonne nouvelle ! Votre commande a été expédiée et est en route vers vous."
	case models.OrderDelivered:
		return "Votre commande a été livrée avec succès."
	case models.OrderCancelled:
		return "Votre commande a été annulée. Si vous avez des questions, n'hésitez pas à nous contacter."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func getStatusIcon(status string) string {
	switch status {
	case models.OrderProcessing:
		return "⚙️"
	case models.OrderShipped:
		return "📦"
	case models.OrderDelivered:
		return "🎉"
	case models.OrderCancelled:
		return "❌"
	default:
		return "📋"
	}
}

func getStatusColor(status string) string {
	switch status {
	case models.OrderProcessing:
		return "#10b981" // Green
	case models.OrderShipped:
		return "#3b82f6" // Blue
	case models.OrderDelivered:
		return "#8b5cf6" // Purple
	case models.OrderCancelled:
		return "#ef4444" // Red
	default:
		return "#6b7280" // Gray
	}
}
