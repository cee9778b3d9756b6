package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/booths/:boothID", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	router.GET("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/booths/7", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/booths/:boothID", "204")))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "festival_http_requests_total"))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordOutcome("visit", "recorded")
	m.RecordOutcome("visit", "recorded")
	m.RecordRateLimited("login")
	m.SetLiveClients(3)
	m.RecordDBPoolStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordOutcomes.WithLabelValues("visit", "recorded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited.WithLabelValues("login")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LiveClients))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("open")))
}

func TestNew_Twice(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
