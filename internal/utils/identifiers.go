package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

func randomHex(n int) string {
	b := make([]byte, (n+1)/2)
	rand.Read(b)
	return hex.EncodeToString(b)[:n]
}

// GenerateOrderNumber genera un número de pedido tipo ORD-1A2B3C4D
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(randomHex(8))
}

// GenerateTrackingNumber genera un número de seguimiento con el prefijo
// del transportista, p.ej. SEUR1A2B3C4D5E6F
func GenerateTrackingNumber(carrier string) string {
	return strings.ToUpper(carrier) + strings.ToUpper(randomHex(12))
}

// GenerateLabelID genera un identificador de etiqueta tipo LABEL-1a2b3c4d
func GenerateLabelID() string {
	return fmt.Sprintf("LABEL-%s", randomHex(8))
}
