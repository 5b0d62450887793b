package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetUserDetailsIDInvalido(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/users/:id/details", GetUserDetails)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/no-es-un-uuid/details", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
