package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/Freeeeeet/officehours/internal/repository/memory"
	"github.com/Freeeeeet/officehours/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	handler http.Handler
	slots   *memory.SlotStore
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := zap.NewNop()
	slots := memory.NewSlotStore()
	instructors := memory.NewInstructorStore()
	retry := service.RetryPolicy{MaxRetries: service.DefaultMaxRetries, Delay: time.Millisecond}

	srv := NewServer(
		service.NewReservationService(slots, nil, retry, logger),
		service.NewSlotService(slots, instructors, nil, retry, logger),
		service.NewQueryService(slots, instructors, time.UTC),
		service.NewInstructorService(instructors, logger),
		opts,
		logger,
	)

	require.NoError(t, instructors.Upsert(context.Background(), &model.Instructor{ID: "prof", DisplayName: "Prof"}))
	return &testServer{handler: srv.Routes(), slots: slots}
}

func (ts *testServer) do(method, path, identity string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != "" {
		req.Header.Set(identityHeader, identity)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) defineSlot(t *testing.T, start, end time.Time) model.Slot {
	t.Helper()
	rec := ts.do(http.MethodPost, "/api/instructors/prof/slots", "prof", gin.H{"start": start, "end": end})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var slot model.Slot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slot))
	return slot
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.October, 15, hour, minute, 0, 0, time.UTC)
}

func TestReserveAndRelease(t *testing.T) {
	ts := newTestServer(t, Options{})
	slot := ts.defineSlot(t, at(10, 0), at(10, 30))

	rec := ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reserved model.Slot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reserved))
	assert.True(t, reserved.HeldBy("alice"))
	assert.Equal(t, int64(1), reserved.Version)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", "bob", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/release", "bob", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/release", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/missing/reserve", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggle(t *testing.T) {
	ts := newTestServer(t, Options{})
	slot := ts.defineSlot(t, at(10, 0), at(10, 30))

	rec := ts.do(http.MethodPatch, "/api/slots/"+slot.ID, "alice", gin.H{"reserved": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPatch, "/api/slots/"+slot.ID, "alice", gin.H{"reserved": false})
	require.Equal(t, http.StatusOK, rec.Code)

	var released model.Slot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &released))
	assert.False(t, released.Reserved)
	assert.Nil(t, released.ReservedBy)
	assert.Equal(t, int64(2), released.Version)

	rec = ts.do(http.MethodPatch, "/api/slots/"+slot.ID, "alice", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSlots(t *testing.T) {
	ts := newTestServer(t, Options{})
	afternoon := ts.defineSlot(t, at(14, 0), at(14, 30))
	morning := ts.defineSlot(t, at(9, 0), at(9, 30))

	rec := ts.do(http.MethodGet, "/api/instructors/prof/slots?date=2024-10-15", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var slots []model.Slot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slots))
	require.Len(t, slots, 2)
	assert.Equal(t, morning.ID, slots[0].ID)
	assert.Equal(t, afternoon.ID, slots[1].ID)

	rec = ts.do(http.MethodGet, "/api/instructors/prof/slots?date=2024-10-16", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/instructors/prof/slots?date=15.10.2024", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/instructors/ghost/slots", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/instructors/prof/days?from=2024-10-14&to=2024-10-20", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"days":["2024-10-15"]}`, rec.Body.String())
}

func TestDefineAndDeleteSlot(t *testing.T) {
	ts := newTestServer(t, Options{})
	slot := ts.defineSlot(t, at(10, 0), at(11, 0))

	rec := ts.do(http.MethodPost, "/api/instructors/prof/slots", "prof", gin.H{"start": at(10, 30), "end": at(11, 30)})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/instructors/prof/slots", "prof", gin.H{"start": at(12, 0), "end": at(11, 0)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/instructors/prof/slots", "alice", gin.H{"start": at(12, 0), "end": at(13, 0)})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/slots/"+slot.ID, "prof", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/slots/"+slot.ID+"?force=true", "prof", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := ts.slots.Get(context.Background(), slot.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRegisterInstructor(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(http.MethodPut, "/api/instructors/dr.who", "dr.who", gin.H{"display_name": "Doctor"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctor")

	rec = ts.do(http.MethodPut, "/api/instructors/dr.who", "alice", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerIdentity(t *testing.T) {
	secret := "s3cret"
	ts := newTestServer(t, Options{JWTSecret: secret})
	slot := ts.defineSlotWithToken(t, secret)

	token := signToken(t, secret, jwt.MapClaims{"username": "alice"})
	req := httptest.NewRequest(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reserved_by":"alice"`)

	// заголовок игнорируется, когда включена проверка токенов
	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/release", "alice", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/slots/"+slot.ID+"/release", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong", jwt.MapClaims{"sub": "alice"}))
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func (ts *testServer) defineSlotWithToken(t *testing.T, secret string) model.Slot {
	t.Helper()

	body, err := json.Marshal(gin.H{"start": at(10, 0), "end": at(10, 30)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/instructors/prof/slots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, jwt.MapClaims{"sub": "prof"}))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var slot model.Slot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slot))
	return slot
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
	slot := ts.defineSlot(t, at(10, 0), at(10, 30))

	rec := ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/reserve", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/release", "alice", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = ts.do(http.MethodPost, "/api/slots/"+slot.ID+"/release", "bob", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrAlreadyReserved, http.StatusConflict},
		{model.ErrConflict, http.StatusConflict},
		{model.ErrSlotReserved, http.StatusConflict},
		{model.ErrContention, http.StatusServiceUnavailable},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrInvalidRange, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
