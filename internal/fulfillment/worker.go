package fulfillment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gocql/gocql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// permanentError marca fallos que reintentarse no arregla (IDs
// ilegibles, ningún método admite el peso). Esos mensajes se rechazan
// sin reencolar, con prefetch 1 un reintento infinito bloquearía el
// worker.
type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func isPermanent(err error) bool {
	var perm permanentError
	return errors.As(err, &perm)
}

// Worker consume eventos de pedido creado y genera los envíos
// pendientes correspondientes
type Worker struct {
	workerID  int
	channel   *amqp.Channel
	queueName string
}

// NewWorker abre un canal propio para el worker con prefetch 1
func NewWorker(workerID int, conn *amqp.Connection, queueName string) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error abriendo canal para el worker %d: %w", workerID, err)
	}

	// Cada worker procesa un mensaje a la vez
	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("error configurando QoS para el worker %d: %w", workerID, err)
	}

	return &Worker{
		workerID:  workerID,
		channel:   ch,
		queueName: queueName,
	}, nil
}

// Start comienza a consumir mensajes hasta que se cierre la conexión
func (w *Worker) Start(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,
		fmt.Sprintf("fulfillment-%d", w.workerID), // consumer tag
		false, // auto-ack desactivado, confirmamos a mano
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Printf("❌ Worker %d: error registrando el consumidor: %v", w.workerID, err)
		return
	}

	log.Printf("✅ Worker %d arrancado y esperando pedidos", w.workerID)

	for msg := range msgs {
		w.processMessage(msg)
	}

	log.Printf("Worker %d parado", w.workerID)
}

func (w *Worker) processMessage(msg amqp.Delivery) {
	var event models.OrderCreatedEvent

	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("⚠️ Worker %d: evento ilegible: %v", w.workerID, err)
		// Mensaje malformado, rechazar sin reencolar
		msg.Nack(false, false)
		return
	}

	if err := w.createShipment(event); err != nil {
		if isPermanent(err) {
			log.Printf("⚠️ Worker %d: pedido %s descartado: %v", w.workerID, event.OrderNumber, err)
			// Reintentar no lo va a arreglar, rechazar sin reencolar
			msg.Nack(false, false)
			return
		}
		log.Printf("❌ Worker %d: error creando el envío para %s: %v", w.workerID, event.OrderNumber, err)
		// Fallo transitorio (base de datos caída, etc), reencolar
		msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("⚠️ Worker %d: error confirmando el mensaje: %v", w.workerID, err)
	} else {
		log.Printf("📦 Worker %d: envío creado para el pedido %s", w.workerID, event.OrderNumber)
	}
}

// parseEventIDs valida los identificadores del evento. Un ID ilegible
// es un error permanente.
func parseEventIDs(event models.OrderCreatedEvent) (orderID, addressID gocql.UUID, err error) {
	orderID, err = gocql.ParseUUID(event.OrderID)
	if err != nil {
		return orderID, addressID, permanentError{fmt.Errorf("order_id inválido: %w", err)}
	}
	if event.AddressID != "" {
		if addressID, err = gocql.ParseUUID(event.AddressID); err != nil {
			return orderID, addressID, permanentError{fmt.Errorf("address_id inválido: %w", err)}
		}
	}
	return orderID, addressID, nil
}

// createShipment elige el método activo más barato que admita el peso
// del pedido y registra el envío en estado pending
func (w *Worker) createShipment(event models.OrderCreatedEvent) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	orderID, addressID, err := parseEventIDs(event)
	if err != nil {
		return err
	}

	method, err := cheapestMethodFor(session, event.WeightKg)
	if err != nil {
		return err
	}

	now := time.Now()
	shipmentID, _ := gocql.RandomUUID()
	trackingNumber := utils.GenerateTrackingNumber(method.Carrier)
	cost := method.CostFor(event.WeightKg)

	shipment := models.Shipment{
		ID:                     shipmentID,
		OrderID:                orderID,
		AddressID:              addressID,
		MethodID:               method.ID,
		TrackingNumber:         trackingNumber,
		Carrier:                method.Carrier,
		WeightKg:               event.WeightKg,
		PackageCount:           1,
		ShippingCost:           cost,
		TotalCost:              cost,
		Status:                 models.ShippingStatusPending,
		EstimatedDeliveryStart: now.AddDate(0, 0, method.EstimatedDaysMin),
		EstimatedDeliveryEnd:   now.AddDate(0, 0, method.EstimatedDaysMax),
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err = session.Query(`
		INSERT INTO shipments (shipment_id, order_id, address_id, method_id, tracking_number,
			carrier, weight_kg, package_count, shipping_cost, insurance_cost, total_cost,
			status, estimated_delivery_start, estimated_delivery_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shipment.ID, shipment.OrderID, shipment.AddressID, shipment.MethodID, shipment.TrackingNumber,
		shipment.Carrier, shipment.WeightKg, shipment.PackageCount, shipment.ShippingCost,
		shipment.InsuranceCost, shipment.TotalCost, shipment.Status,
		shipment.EstimatedDeliveryStart, shipment.EstimatedDeliveryEnd,
		shipment.CreatedAt, shipment.UpdatedAt,
	).Exec()
	if err != nil {
		return err
	}

	// Tablas de búsqueda por tracking y por pedido
	err = session.Query(`
		INSERT INTO shipments_by_tracking (tracking_number, shipment_id, order_id)
		VALUES (?, ?, ?)`,
		shipment.TrackingNumber, shipment.ID, shipment.OrderID,
	).Exec()
	if err != nil {
		return err
	}

	err = session.Query(`
		INSERT INTO shipments_by_order (order_id, shipment_id)
		VALUES (?, ?)`,
		shipment.OrderID, shipment.ID,
	).Exec()
	if err != nil {
		return err
	}

	// El pedido pasa a preparación
	var userID gocql.UUID
	var orderCreatedAt time.Time
	if err := session.Query(`SELECT user_id, created_at FROM orders WHERE order_id = ?`,
		orderID).Scan(&userID, &orderCreatedAt); err == nil {
		session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
			models.OrderStatusProcessing, now, orderID).Exec()
		session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ?`,
			models.OrderStatusProcessing, userID, orderCreatedAt).Exec()
	}

	return nil
}

// cheapestMethodFor recorre los métodos activos y se queda con el más
// barato para ese peso
func cheapestMethodFor(session *gocql.Session, weightKg float64) (*models.ShippingMethod, error) {
	iter := session.Query(`
		SELECT method_id, name, code, carrier, base_cost, cost_per_kg, min_weight_kg,
			max_weight_kg, estimated_days_min, estimated_days_max, requires_signature,
			has_tracking, is_active
		FROM shipping_methods`).Iter()

	var best *models.ShippingMethod
	var m models.ShippingMethod

	for iter.Scan(&m.ID, &m.Name, &m.Code, &m.Carrier, &m.BaseCost, &m.CostPerKg,
		&m.MinWeightKg, &m.MaxWeightKg, &m.EstimatedDaysMin, &m.EstimatedDaysMax,
		&m.RequiresSignature, &m.HasTracking, &m.IsActive) {

		if !m.IsActive || !m.AcceptsWeight(weightKg) {
			continue
		}
		candidate := m
		if best == nil || candidate.CostFor(weightKg) < best.CostFor(weightKg) {
			best = &candidate
		}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, permanentError{fmt.Errorf("ningún método de envío activo admite %.2f kg", weightKg)}
	}
	return best, nil
}

// Stop cierra el canal del worker
func (w *Worker) Stop() {
	if w.channel != nil {
		w.channel.Close()
	}
}
