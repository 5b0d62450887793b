package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, re, GenerateOrderNumber())
	}
}

func TestGenerateOrderNumberEsUnico(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.False(t, seen[n], "número de pedido repetido: %s", n)
		seen[n] = true
	}
}

func TestGenerateTrackingNumber(t *testing.T) {
	tn := GenerateTrackingNumber("seur")
	assert.Regexp(t, `^SEUR[0-9A-F]{12}$`, tn)

	tn = GenerateTrackingNumber("correos")
	assert.Regexp(t, `^CORREOS[0-9A-F]{12}$`, tn)
}

func TestGenerateLabelID(t *testing.T) {
	assert.Regexp(t, `^LABEL-[0-9a-f]{8}$`, GenerateLabelID())
}
