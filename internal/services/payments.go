package services

import (
	"log"
	"os"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripeEnabled indica si hay clave Stripe configurada. Sin clave, el
// checkout funciona igual pero sin PaymentIntent (pago simulado).
func StripeEnabled() bool {
	return os.Getenv("STRIPE_SECRET_KEY") != ""
}

// InitStripe configura la clave global de Stripe si está presente
func InitStripe() {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Println("⚠️ Stripe no configurado, los pagos se simulan")
		return
	}
	stripe.Key = key
	log.Println("✅ Stripe configurado")
}

// CreatePaymentIntent crea un PaymentIntent para un pedido
func CreatePaymentIntent(orderNumber, userID string, totalAmount float64) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(totalAmount * 100)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_number": orderNumber,
			"user_id":      userID,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}

	log.Printf("💳 PaymentIntent creado: %s (%.2f€) para el pedido %s", intent.ID, totalAmount, orderNumber)
	return intent.ID, intent.ClientSecret, nil
}
