package publish_slot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/service/slots"
	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

func newRouter() *mux.Router {
	offerings := testutil.NewOfferings()
	offerings.AddOffering(100, 7, "50.00")
	svc := slots.NewService(testutil.NewStore().Slots, offerings, testutil.NopLogger{}).
		WithTimeProvider(&testutil.Clock{T: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)})

	router := mux.NewRouter()
	router.HandleFunc("/practitioners/{practitionerId}/slots", NewHandler(svc, testutil.NopLogger{}).Handle).
		Methods(http.MethodPost)
	return router
}

func post(router *mux.Router, practitionerID string, userID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/practitioners/"+practitionerID+"/slots", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PublishesSlot(t *testing.T) {
	rec := post(newRouter(), "7", 7,
		`{"serviceOfferingId":100,"slotDate":"2026-03-11","startTime":"09:00","endTime":"10:00","timezone":"UTC"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var slot models.SlotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slot))
	assert.NotZero(t, slot.ID)
	assert.Equal(t, 1, slot.MaxBookings)
	assert.Equal(t, 1, slot.AvailableSpots)
	assert.True(t, slot.IsAvailable)
}

func TestHandle_Rejections(t *testing.T) {
	cases := []struct {
		name           string
		practitionerID string
		userID         int64
		body           string
		code           int
	}{
		{
			name:           "other user",
			practitionerID: "7",
			userID:         8,
			body:           `{"slotDate":"2026-03-11","startTime":"09:00","endTime":"10:00","timezone":"UTC"}`,
			code:           http.StatusForbidden,
		},
		{
			name:           "end before start",
			practitionerID: "7",
			userID:         7,
			body:           `{"slotDate":"2026-03-11","startTime":"10:00","endTime":"09:00","timezone":"UTC"}`,
			code:           http.StatusBadRequest,
		},
		{
			name:           "capacity above limit",
			practitionerID: "7",
			userID:         7,
			body:           `{"slotDate":"2026-03-11","startTime":"09:00","endTime":"10:00","timezone":"UTC","maxBookings":101}`,
			code:           http.StatusBadRequest,
		},
		{
			name:           "unknown offering",
			practitionerID: "7",
			userID:         7,
			body:           `{"serviceOfferingId":999,"slotDate":"2026-03-11","startTime":"09:00","endTime":"10:00","timezone":"UTC"}`,
			code:           http.StatusNotFound,
		},
		{
			name:           "unknown field",
			practitionerID: "7",
			userID:         7,
			body:           `{"practitionerId":7}`,
			code:           http.StatusBadRequest,
		},
		{
			name:           "bad practitioner id",
			practitionerID: "0",
			userID:         7,
			body:           `{}`,
			code:           http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(newRouter(), tc.practitionerID, tc.userID, tc.body)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
