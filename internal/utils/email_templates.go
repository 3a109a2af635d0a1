package utils

import (
	"bytes"
	"html/template"

	"cloudscale_back_end/internal/models"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Bienvenue sur CloudScale</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
    <div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 40px 30px; text-align: center; border-radius: 12px 12px 0 0;">
            <h1 style="margin: 0; color: #ffffff;">🎉 Bienvenue sur CloudScale !</h1>
            <p style="margin: 15px 0 0 0; color: #ffffff;">Bonjour {{.Name}}</p>
        </div>
        <div style="padding: 30px; color: #333333; line-height: 1.6;">
            <p>Votre compte <strong>{{.Username}}</strong> est prêt. Découvrez dès maintenant notre catalogue.</p>
            <p>Cordialement,<br><strong>L'équipe CloudScale</strong></p>
        </div>
    </div>
</body>
</html>`))

var orderConfirmationTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande #{{.OrderID}}</h2>
		<p>Bonjour {{.Name}},</p>
		<p>Votre commande a été enregistrée. Statut: <strong>{{.Status}}</strong></p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{range .Lines}}
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Name}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">${{.UnitPrice.StringFixed 2}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">${{.Total.StringFixed 2}}</td>
				</tr>
			{{end}}
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">${{.Total}}</td>
				</tr>
			</tfoot>
		</table>
		<p style="margin-top: 30px; color: #555;">Cordialement,<br><strong>L'équipe CloudScale</strong></p>
	</div>
</body>
</html>`))

func displayName(user models.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Username
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderWelcomeHTML(user models.User) (string, error) {
	return render(welcomeTemplate, map[string]string{
		"Name":     displayName(user),
		"Username": user.Username,
	})
}

func RenderOrderConfirmationHTML(user models.User, order models.Order, lines []OrderMailLine) (string, error) {
	return render(orderConfirmationTemplate, map[string]interface{}{
		"OrderID": order.ID,
		"Name":    displayName(user),
		"Status":  order.Status,
		"Lines":   lines,
		"Total":   order.TotalAmount.Round(2).StringFixed(2),
	})
}
