package utils

import (
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/serafin-rian/tienda-virtual/internal/database"
)

// LogAction registra una acción administrable en el audit log (asíncrono,
// no bloquea la request que la originó)
func LogAction(action, targetID, targetName, performedBy, ipAddress, details string) {
	go func() {
		session, err := database.GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Audit log: sin sesión ScyllaDB: %v", err)
			return
		}

		id, _ := gocql.RandomUUID()
		err = session.Query(`
			INSERT INTO audit_logs (id, action, target_id, target_name, performed_by, performed_at, ip_address, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, action, targetID, targetName, performedBy, time.Now(), ipAddress, details,
		).Exec()

		if err != nil {
			log.Printf("⚠️ Audit log: error al insertar '%s': %v", action, err)
		}
	}()
}
