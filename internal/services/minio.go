package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/serafin-rian/tienda-virtual/internal/config"
	"github.com/serafin-rian/tienda-virtual/internal/database"
)

const MaxImageSize = 10 << 20 // 10 MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage comprueba extensión, content-type y tamaño antes de subir
func ValidateImage(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("extensión no permitida: %s", ext)
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("el fichero no es una imagen: %s", contentType)
	}

	if file.Size > MaxImageSize {
		return fmt.Errorf("imagen demasiado grande: %d bytes (máximo %d)", file.Size, MaxImageSize)
	}

	return nil
}

// UploadProductImage sube la imagen de un producto a MinIO y devuelve la
// ruta del objeto dentro del bucket
func UploadProductImage(productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO no inicializado")
	}

	if err := ValidateImage(file); err != nil {
		return "", err
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("products/%s%s", productID, ext)
	bucket := config.Getenv("MINIO_BUCKET", "tienda-images")

	_, err = database.MinIO.PutObject(context.Background(), bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// UploadBytes sube un objeto generado en memoria (etiquetas, códigos QR)
func UploadBytes(objectName string, data []byte, contentType string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO no inicializado")
	}

	bucket := config.Getenv("MINIO_BUCKET", "tienda-images")
	_, err := database.MinIO.PutObject(context.Background(), bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GenerateSignedURL genera una URL firmada con expiración para un objeto
func GenerateSignedURL(ctx context.Context, objectName string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO no inicializado")
	}

	reqParams := make(url.Values)
	bucket := config.Getenv("MINIO_BUCKET", "tienda-images")

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, objectName, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
