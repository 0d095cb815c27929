package delete_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/service/slots"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

type fakeService struct {
	err error
}

func (f *fakeService) Delete(ctx context.Context, slotID int64, userID int64) error {
	return f.err
}

func TestHandle(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{nil, http.StatusNoContent},
		{slots.ErrSlotNotFound, http.StatusNotFound},
		{slots.ErrAccessDenied, http.StatusForbidden},
		{slots.ErrSlotNotDeletable, http.StatusConflict},
		{slots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewHandler(&fakeService{err: tc.err}, testutil.NopLogger{})
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/slots/3", nil)
		req = mux.SetURLVars(req, map[string]string{"slotId": "3"})
		req = req.WithContext(middleware.WithUserID(req.Context(), 7))
		rec := httptest.NewRecorder()

		h.Handle(rec, req)

		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}
