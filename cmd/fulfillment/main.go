package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/serafin-rian/tienda-virtual/internal/config"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/events"
	"github.com/serafin-rian/tienda-virtual/internal/fulfillment"
)

func main() {
	config.Load()

	numWorkers, _ := strconv.Atoi(config.Getenv("FULFILLMENT_WORKERS", "4"))
	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		log.Fatal("❌ RABBITMQ_URL es obligatorio para el worker de fulfillment")
	}

	log.Printf("🚚 Arrancando fulfillment con %d workers", numWorkers)

	// El worker solo escribe en el keyspace de pedidos
	database.ConnectDatabases()

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		log.Fatalf("❌ Error conectando a RabbitMQ: %v", err)
	}
	defer conn.Close()

	// Declarar la cola por si el servidor aún no ha publicado nada
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("❌ Error abriendo canal: %v", err)
	}
	_, err = ch.QueueDeclare(events.OrdersQueue, true, false, false, false, nil)
	if err != nil {
		log.Fatalf("❌ Error declarando la cola: %v", err)
	}
	ch.Close()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		worker, err := fulfillment.NewWorker(i+1, conn, events.OrdersQueue)
		if err != nil {
			log.Fatalf("❌ Error creando el worker %d: %v", i+1, err)
		}

		wg.Add(1)
		go worker.Start(&wg)
	}

	log.Printf("✅ %d workers de fulfillment en marcha", numWorkers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Señal de parada recibida, cerrando workers...")
	conn.Close()
	wg.Wait()
	log.Println("Fulfillment parado limpiamente")
}
