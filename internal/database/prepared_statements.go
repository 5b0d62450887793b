package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements para las consultas más frecuentes
	stmtGetUserByUsername *gocql.Query
	stmtGetUserByID       *gocql.Query
	stmtInsertUser        *gocql.Query
	stmtInsertUserByName  *gocql.Query
	stmtGetProductByID    *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements inicializa los prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ No se pudieron inicializar los prepared statements de usuarios: %v", err)
			return
		}

		stmtGetUserByUsername = usersSession.Query(
			"SELECT user_id FROM users_by_username WHERE username = ?")

		stmtGetUserByID = usersSession.Query(
			`SELECT username, hashed_password, role, is_superuser, created_at
			 FROM users WHERE user_id = ?`)

		stmtInsertUser = usersSession.Query(
			`INSERT INTO users (user_id, username, hashed_password, role, is_superuser, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`)

		stmtInsertUserByName = usersSession.Query(
			"INSERT INTO users_by_username (username, user_id) VALUES (?, ?)")

		productsSession, err := GetProductsSession()
		if err != nil {
			log.Printf("⚠️ No se pudieron inicializar los prepared statements de productos: %v", err)
			return
		}

		stmtGetProductByID = productsSession.Query(
			`SELECT product_id, name, description, price, quantity, weight_kg, requires_shipping,
			        image_url, owner_id, created_at, updated_at
			 FROM products WHERE product_id = ?`)

		log.Println("✅ Prepared statements inicializados")
	})
}

func GetPreparedGetUserByUsername() *gocql.Query {
	return stmtGetUserByUsername
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

func GetPreparedInsertUserByName() *gocql.Query {
	return stmtInsertUserByName
}

func GetPreparedGetProductByID() *gocql.Query {
	return stmtGetProductByID
}
