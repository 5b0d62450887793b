package admin

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// loadAuditLogs hace un full scan del audit log, más recientes primero.
// El volumen es bajo (solo acciones críticas), un scan es asumible.
func loadAuditLogs() ([]models.AuditLog, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT id, action, target_id, target_name, performed_by, performed_at, ip_address, details
		FROM audit_logs`).Iter()

	logs := []models.AuditLog{}
	var entry models.AuditLog
	for iter.Scan(&entry.ID, &entry.Action, &entry.TargetID, &entry.TargetName,
		&entry.PerformedBy, &entry.PerformedAt, &entry.IPAddress, &entry.Details) {
		logs = append(logs, entry)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].PerformedAt.After(logs[j].PerformedAt) })
	return logs, nil
}

func paginate(c *gin.Context, logs []models.AuditLog) []models.AuditLog {
	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o > 0 {
		offset = o
	}

	if offset >= len(logs) {
		return []models.AuditLog{}
	}
	logs = logs[offset:]
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

// 🟢 GET /api/admin/audit?action=order_created&performed_by=xxx&days=7&limit=100&offset=0
func GetAuditLogs(c *gin.Context) {
	logs, err := loadAuditLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al leer el audit log"})
		return
	}

	actionFilter := c.Query("action")
	performedBy := c.Query("performed_by")
	var cutoff time.Time
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		cutoff = time.Now().AddDate(0, 0, -d)
	}

	filtered := []models.AuditLog{}
	for _, entry := range logs {
		if actionFilter != "" && entry.Action != actionFilter {
			continue
		}
		if performedBy != "" && entry.PerformedBy != performedBy {
			continue
		}
		if !cutoff.IsZero() && entry.PerformedAt.Before(cutoff) {
			continue
		}
		filtered = append(filtered, entry)
	}

	page := paginate(c, filtered)
	c.JSON(http.StatusOK, gin.H{
		"total": len(filtered),
		"count": len(page),
		"logs":  page,
	})
}

// 🟢 GET /api/admin/audit/search?q=teclado&from=2025-01-01&to=2025-02-01
func SearchAuditLogs(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parámetro q obligatorio"})
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.AddDate(0, 0, 1) // inclusivo
		}
	}

	logs, err := loadAuditLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al leer el audit log"})
		return
	}

	results := []models.AuditLog{}
	for _, entry := range logs {
		if !strings.Contains(strings.ToLower(entry.TargetName), query) {
			continue
		}
		if !from.IsZero() && entry.PerformedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !entry.PerformedAt.Before(to) {
			continue
		}
		results = append(results, entry)
	}

	page := paginate(c, results)
	c.JSON(http.StatusOK, gin.H{
		"total": len(results),
		"count": len(page),
		"logs":  page,
	})
}

// 🟢 GET /api/admin/audit/stats?days=30
func GetAuditStats(c *gin.Context) {
	days := 30
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		days = d
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	logs, err := loadAuditLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al leer el audit log"})
		return
	}

	byAction := map[string]int{}
	byUser := map[string]int{}
	inWindow := 0
	for _, entry := range logs {
		if entry.PerformedAt.Before(cutoff) {
			continue
		}
		inWindow++
		byAction[entry.Action]++
		byUser[entry.PerformedBy]++
	}

	type userCount struct {
		UserID string `json:"user_id"`
		Count  int    `json:"count"`
	}
	topUsers := []userCount{}
	for id, n := range byUser {
		topUsers = append(topUsers, userCount{UserID: id, Count: n})
	}
	sort.Slice(topUsers, func(i, j int) bool { return topUsers[i].Count > topUsers[j].Count })
	if len(topUsers) > 5 {
		topUsers = topUsers[:5]
	}

	recent := logs
	if len(recent) > 10 {
		recent = recent[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"period_days":  days,
		"total_all":    len(logs),
		"total_period": inWindow,
		"by_action":    byAction,
		"top_users":    topUsers,
		"recent_logs":  recent,
	})
}

// 🟢 GET /api/admin/audit/user/:id
func GetAuditLogsByUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	logs, err := loadAuditLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al leer el audit log"})
		return
	}

	results := []models.AuditLog{}
	for _, entry := range logs {
		if entry.PerformedBy == id {
			results = append(results, entry)
		}
	}

	page := paginate(c, results)
	c.JSON(http.StatusOK, gin.H{
		"user_id": id,
		"total":   len(results),
		"count":   len(page),
		"logs":    page,
	})
}

// 🟢 GET /api/admin/audit/:id
func GetAuditLogByID(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	var entry models.AuditLog
	err = session.Query(`
		SELECT id, action, target_id, target_name, performed_by, performed_at, ip_address, details
		FROM audit_logs WHERE id = ?`, gocql.UUID(logID)).Scan(
		&entry.ID, &entry.Action, &entry.TargetID, &entry.TargetName,
		&entry.PerformedBy, &entry.PerformedAt, &entry.IPAddress, &entry.Details)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entrada no encontrada"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// 🟢 DELETE /api/admin/audit/cleanup?days=90 (solo superusuario)
// Borra las entradas más antiguas que N días
func CleanupAuditLogs(c *gin.Context) {
	if !c.GetBool("is_superuser") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo un superusuario puede limpiar el audit log"})
		return
	}

	days := 90
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		days = d
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	logs, err := loadAuditLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al leer el audit log"})
		return
	}

	deleted := 0
	for _, entry := range logs {
		if entry.PerformedAt.Before(cutoff) {
			if err := session.Query(`DELETE FROM audit_logs WHERE id = ?`, entry.ID).Exec(); err == nil {
				deleted++
			}
		}
	}

	utils.LogAction("audit_cleanup", "", "", c.GetString("user_id"), c.ClientIP(),
		strconv.Itoa(deleted)+" entradas eliminadas")

	c.JSON(http.StatusOK, gin.H{
		"deleted":     deleted,
		"older_than":  cutoff,
		"period_days": days,
	})
}
