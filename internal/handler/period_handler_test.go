package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/service"
	"github.com/escolar-mx/secundaria-api/internal/store"
	"github.com/escolar-mx/secundaria-api/pkg/clock"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

func newPeriodHandler(t *testing.T) (*PeriodHandler, *store.Store) {
	t.Helper()
	st := store.New(models.DefaultSchoolState("2025-2026"), nil, nil)
	civil, err := clock.NewCivil("America/Mexico_City")
	require.NoError(t, err)
	return NewPeriodHandler(service.NewPeriodService(st, nil), civil), st
}

func TestPeriodHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newPeriodHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/periods", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.PeriodView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 6)
	assert.Equal(t, models.PeriodAdvance1, envelope.Data[0].Period.ID)
	assert.True(t, envelope.Data[0].State.Open)
}

func TestPeriodHandlerSetDeadlineParsesCivilTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, st := newPeriodHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(SetDeadlineRequest{Deadline: "2026-03-10T18:00"})
	c.Request = httptest.NewRequest(http.MethodPut, "/periods/advance_1/deadline", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "advance_1"}}

	handler.SetDeadline(c)
	require.Equal(t, http.StatusOK, w.Code)

	snap := st.Snapshot()
	deadline := snap.Periods[models.PeriodAdvance1].Deadline
	require.NotNil(t, deadline)

	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 0, 0, 0, loc), deadline.In(loc))
}

func TestPeriodHandlerSetDeadlineOnClosedPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newPeriodHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(SetDeadlineRequest{Deadline: "2026-03-10T18:00"})
	c.Request = httptest.NewRequest(http.MethodPut, "/periods/term_3/deadline", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "term_3"}}

	handler.SetDeadline(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "PERIOD_CLOSED", envelope.Error.Code)
}

func TestPeriodHandlerSetDeadlineBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newPeriodHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(SetDeadlineRequest{Deadline: "mañana"})
	c.Request = httptest.NewRequest(http.MethodPut, "/periods/advance_1/deadline", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "advance_1"}}

	handler.SetDeadline(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPeriodHandlerOpenUnknownPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newPeriodHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/periods/semester_1/open", nil)
	c.Params = gin.Params{{Key: "id", Value: "semester_1"}}

	handler.Open(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
