package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// OrdersQueue es la cola donde el checkout publica los pedidos creados
// y de donde consume el worker de fulfillment
const OrdersQueue = "orders.created"

var pool *ChannelPool

// InitPublisher conecta con RabbitMQ si hay URL configurada. Sin
// RabbitMQ el checkout funciona igual, solo que sin fulfillment
// asíncrono.
func InitPublisher() {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Println("⚠️ RabbitMQ no configurado, eventos de pedido desactivados")
		return
	}

	p, err := NewChannelPool(url, OrdersQueue, 5)
	if err != nil {
		log.Println("⚠️ No se pudo conectar a RabbitMQ:", err)
		return
	}
	pool = p
}

// ClosePublisher cierra el pool si está abierto
func ClosePublisher() {
	if pool != nil {
		pool.Close()
	}
}

// PublisherReady indica si hay conexión con el broker
func PublisherReady() bool {
	return pool != nil
}

// PublishOrderCreated publica un evento de pedido creado. Es fire and
// forget: un fallo se registra pero no tumba el checkout.
func PublishOrderCreated(event models.OrderCreatedEvent) {
	if pool == nil {
		return
	}

	if err := publish(event); err != nil {
		log.Printf("⚠️ No se pudo publicar el pedido %s: %v", event.OrderNumber, err)
	}
}

func publish(event models.OrderCreatedEvent) error {
	ch, err := pool.GetChannel()
	if err != nil {
		return fmt.Errorf("error obteniendo canal del pool: %w", err)
	}
	defer pool.ReturnChannel(ch)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error serializando el evento: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		OrdersQueue, // routing key (nombre de la cola)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("error publicando el evento: %w", err)
	}

	log.Printf("📦 Pedido %s publicado en la cola %s", event.OrderNumber, OrdersQueue)
	return nil
}
