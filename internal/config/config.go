package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load carga el archivo .env si existe. En producción las variables
// vienen del entorno del sistema y el archivo es opcional.
func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No se encontró archivo .env — se usan las variables del sistema")
	} else {
		log.Println("✅ Archivo .env cargado")
	}
}

// Getenv devuelve una variable de entorno o un valor por defecto.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
