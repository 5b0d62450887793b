package events

import (
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelPool mantiene un pool de canales AMQP reutilizables sobre una
// única conexión
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	mu        sync.Mutex
	size      int
	queueName string
}

// NewChannelPool crea un pool de canales hacia RabbitMQ
func NewChannelPool(rabbitmqURL string, queueName string, size int) (*ChannelPool, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("error conectando a RabbitMQ: %w", err)
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		size:      size,
		queueName: queueName,
	}

	// Pre-crear los canales
	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("error creando el canal %d: %w", i, err)
		}
		pool.channels <- ch
	}

	log.Printf("✅ Pool RabbitMQ creado con %d canales", size)
	return pool, nil
}

func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}

	// Declarar la cola (operación idempotente)
	_, err = ch.QueueDeclare(
		p.queueName, // nombre
		true,        // durable
		false,       // borrar si no se usa
		false,       // exclusiva
		false,       // no-wait
		nil,         // argumentos
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("error declarando la cola: %w", err)
	}

	return ch, nil
}

// GetChannel saca un canal del pool
func (p *ChannelPool) GetChannel() (*amqp.Channel, error) {
	select {
	case ch := <-p.channels:
		if ch.IsClosed() {
			newCh, err := p.createChannel()
			if err != nil {
				return nil, err
			}
			return newCh, nil
		}
		return ch, nil
	default:
		return nil, errors.New("no hay canales disponibles en el pool")
	}
}

// ReturnChannel devuelve un canal al pool
func (p *ChannelPool) ReturnChannel(ch *amqp.Channel) {
	if ch != nil && !ch.IsClosed() {
		select {
		case p.channels <- ch:
		default:
			// Pool lleno, cerrar el canal
			ch.Close()
		}
	}
}

// Close cierra todos los canales y la conexión
func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	log.Println("Pool RabbitMQ cerrado")
}
