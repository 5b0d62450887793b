package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// EmailEnabled indica si hay SMTP configurado. Sin SMTP el checkout
// funciona igual, simplemente no se envía confirmación.
func EmailEnabled() bool {
	return os.Getenv("SMTP_HOST") != ""
}

// SendOrderConfirmationEmail envía la confirmación de un pedido
func SendOrderConfirmationEmail(to string, order models.Order, items []models.OrderItem) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@tienda-virtual.local"
	}

	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmación de pedido %s", order.OrderNumber))
	msg.SetBodyString(mail.TypeTextHTML, GenerateOrderConfirmationHTML(order, items))

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Enviando confirmación de pedido a", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML genera el HTML de confirmación de pedido
func GenerateOrderConfirmationHTML(order models.Order, items []models.OrderItem) string {
	itemsHTML := ""
	for _, item := range items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.ProductPrice, item.Subtotal)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<title>Confirmación de pedido</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmación de tu pedido</h2>
		<p>Hola,</p>
		<p>Tu pedido <strong>%s</strong> se ha registrado correctamente.</p>

		<h3>Detalle del pedido</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Producto</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Cantidad</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Precio unitario</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>

		<p style="font-size: 18px;"><strong>Total: %.2f€</strong></p>
		<p>Gracias por tu compra.</p>
	</div>
</body>
</html>`, order.OrderNumber, itemsHTML, order.TotalAmount)
}
