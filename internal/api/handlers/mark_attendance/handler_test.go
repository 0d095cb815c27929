package mark_attendance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	completeBooking "github.com/m04kA/SessionBookingService/internal/usecase/complete_booking"
)

type fakeUseCase struct {
	got *completeBooking.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *completeBooking.Request) (*completeBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	status := "completed"
	if !req.Attended {
		status = "no_show"
	}
	return &completeBooking.Response{BookingID: req.BookingID, Status: status, CompletedAt: time.Now()}, nil
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/4/attendance", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "4"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 20))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_NoShow(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, testutil.NopLogger{})

	rec := doRequest(h, `{"attended":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uc.got.Attended)
	assert.Equal(t, int64(20), uc.got.PractitionerID)
	assert.Contains(t, rec.Body.String(), `"status":"no_show"`)
}

func TestHandle_AttendedRequired(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, testutil.NopLogger{})

	rec := doRequest(h, `{"sessionNotes":"ok"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{completeBooking.ErrBookingNotFound, http.StatusNotFound},
		{completeBooking.ErrAccessDenied, http.StatusForbidden},
		{completeBooking.ErrInvalidTransition, http.StatusConflict},
		{completeBooking.ErrSessionNotElapsed, http.StatusConflict},
		{completeBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewHandler(&fakeUseCase{err: tc.err}, testutil.NopLogger{})
		assert.Equal(t, tc.code, doRequest(h, `{"attended":true}`).Code, "error %v", tc.err)
	}
}
