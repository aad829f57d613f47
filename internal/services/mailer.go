package services

import (
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"vitrine_back_end/internal/config"
	"vitrine_back_end/internal/models"
)

// Mailer — envoi des confirmations de commande. SMTP non configuré =
// envoi désactivé, le checkout n'en dépend jamais.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// SendOrderConfirmation envoie le récapitulatif de commande.
// Best effort : un échec est loggué, jamais remonté au checkout.
func (m *Mailer) SendOrderConfirmation(to string, order models.Order) {
	if !m.Enabled() {
		return
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		log.Printf("⚠️ Adresse expéditeur invalide: %v", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("⚠️ Adresse destinataire invalide (%s): %v", to, err)
		return
	}
	msg.Subject(fmt.Sprintf("Confirmation de votre commande %s", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Printf("⚠️ Erreur client SMTP: %v", err)
		return
	}

	log.Println("📤 Envoi de la confirmation de commande à", to)
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("⚠️ Envoi email échoué pour la commande %s: %v", order.ID, err)
	}
}

func orderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Merci pour votre commande <strong>%s</strong>. La voici en détail :</p>
		<table style="width: 100%%; border-collapse: collapse;">
			<tr>
				<th align="left">Produit</th>
				<th align="left">Quantité</th>
				<th align="left">Prix unitaire</th>
				<th align="left">Sous-total</th>
			</tr>
			%s
		</table>
		<p style="font-size: 18px;"><strong>Total : %.2f€</strong></p>
		<p>Votre commande est en cours de préparation.</p>
	</div>
</body>
</html>`, order.ID, itemsHTML, order.Total)
}
