package create_review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	createReview "github.com/m04kA/SessionBookingService/internal/usecase/create_review"
)

type fakeUseCase struct {
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createReview.Request) (*createReview.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &createReview.Response{
		ID:         1,
		BookingID:  req.BookingID,
		ReviewerID: req.ReviewerID,
		Rating:     req.Rating,
		CreatedAt:  time.Now(),
	}, nil
}

func TestHandle(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		code int
	}{
		{"created", nil, `{"rating":5}`, http.StatusCreated},
		{"not completed", createReview.ErrNotEligible, `{"rating":5}`, http.StatusUnprocessableEntity},
		{"duplicate", createReview.ErrReviewExists, `{"rating":5}`, http.StatusConflict},
		{"bad rating", createReview.ErrInvalidInput, `{"rating":9}`, http.StatusBadRequest},
		{"missing booking", createReview.ErrBookingNotFound, `{"rating":5}`, http.StatusNotFound},
		{"broken body", nil, `{"rating":`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tc.err}, testutil.NopLogger{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/4/review", strings.NewReader(tc.body))
			req = mux.SetURLVars(req, map[string]string{"bookingId": "4"})
			req = req.WithContext(middleware.WithUserID(req.Context(), 5))
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
