package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/bookings"
	"github.com/m04kA/SMC-AgendaService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type stubService struct {
	resp *models.BookingDetailResponse
	err  error
}

func (s *stubService) GetByID(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*models.BookingDetailResponse, error) {
	return s.resp, s.err
}

func serve(svc *stubService, bookingID string, ownerID *uuid.UUID) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	if ownerID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *ownerID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ReturnsWholeGroup(t *testing.T) {
	ownerID, groupID := uuid.New(), uuid.New()
	cut := models.BookingResponse{ID: uuid.New(), GroupID: groupID, StartTime: "09:00", EndTime: "09:30", Status: "pending"}
	beard := models.BookingResponse{ID: uuid.New(), GroupID: groupID, StartTime: "09:30", EndTime: "10:00", Status: "pending"}

	svc := &stubService{resp: &models.BookingDetailResponse{
		BookingResponse: beard,
		GroupStartTime:  "09:00",
		GroupEndTime:    "10:00",
		DurationMinutes: 60,
		Parts:           []models.BookingResponse{cut, beard},
	}}

	rec := serve(svc, beard.ID.String(), &ownerID)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, beard.ID.String(), body["id"])
	assert.Equal(t, "09:00", body["group_start_time"])
	assert.Equal(t, "10:00", body["group_end_time"])
	assert.EqualValues(t, 60, body["duration_minutes"])
	require.Len(t, body["parts"], 2)
}

func TestHandle_Errors(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name       string
		bookingID  string
		owner      *uuid.UUID
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "abc", owner: &ownerID, wantStatus: http.StatusBadRequest},
		{name: "no owner", bookingID: uuid.NewString(), wantStatus: http.StatusUnauthorized},
		{name: "not found", bookingID: uuid.NewString(), owner: &ownerID, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "foreign agenda", bookingID: uuid.NewString(), owner: &ownerID, err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "storage failure", bookingID: uuid.NewString(), owner: &ownerID, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.bookingID, tt.owner)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
