package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/escolar-mx/secundaria-api/internal/models"
)

func capabilityRouter(capability models.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequireCapability(capability), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireCapabilityWithoutClaims(t *testing.T) {
	r := capabilityRouter(models.CapabilityManagePeriods)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCapabilityByRole(t *testing.T) {
	cases := []struct {
		role models.Role
		want int
	}{
		{models.RoleDirector, http.StatusOK},
		{models.RoleSecretary, http.StatusOK},
		{models.RoleTeacher, http.StatusForbidden},
		{models.RolePrefect, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Set(ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: tc.role})
			})
			r.GET("/guarded", RequireCapability(models.CapabilityManagePeriods), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
