package get_seeker_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/service/bookings"
	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

type fakeService struct {
	got *models.GetSeekerBookingsRequest
	err error
}

func (f *fakeService) GetSeekerBookings(ctx context.Context, req *models.GetSeekerBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{
		Bookings: []models.BookingResponse{{ID: 1, SeekerID: req.SeekerID, Status: "pending"}},
	}, nil
}

func doRequest(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = mux.SetURLVars(req, map[string]string{"seekerId": "5"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 5))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ListsWithStatusFilter(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, testutil.NopLogger{})

	rec := doRequest(h, "/api/v1/seekers/5/bookings?status=pending")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "pending", *svc.got.Status)
	assert.Equal(t, int64(5), svc.got.UserID)

	var resp models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
}

func TestHandle_ErrorMapping(t *testing.T) {
	h := NewHandler(&fakeService{err: bookings.ErrAccessDenied}, testutil.NopLogger{})
	assert.Equal(t, http.StatusForbidden, doRequest(h, "/api/v1/seekers/5/bookings").Code)

	h = NewHandler(&fakeService{err: bookings.ErrInvalidInput}, testutil.NopLogger{})
	assert.Equal(t, http.StatusBadRequest, doRequest(h, "/api/v1/seekers/5/bookings?status=bogus").Code)

	h = NewHandler(&fakeService{err: bookings.ErrInternal}, testutil.NopLogger{})
	assert.Equal(t, http.StatusInternalServerError, doRequest(h, "/api/v1/seekers/5/bookings").Code)
}
