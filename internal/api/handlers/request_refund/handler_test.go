package request_refund

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	requestRefund "github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

type fakeUseCase struct {
	got *requestRefund.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *requestRefund.Request) (*requestRefund.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &requestRefund.Response{
		RefundID:           1,
		TransactionID:      req.TransactionID,
		Amount:             *req.Amount,
		PlatformFeeRefund:  300,
		PractitionerRefund: 1700,
		Status:             "succeeded",
		TransactionStatus:  "partially_refunded",
		RemainingBalance:   8000,
	}, nil
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/3/refunds", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"transactionId": "3"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 20))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PartialRefund(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, testutil.NopLogger{})

	rec := doRequest(h, `{"amount":2000,"reason":"shortened session"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(20), uc.got.ActorID)
	assert.False(t, uc.got.System)

	var resp RefundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2000), resp.Amount)
	assert.Equal(t, resp.Amount, resp.PlatformFeeRefund+resp.PractitionerRefund)
	assert.Equal(t, "partially_refunded", resp.TransactionStatus)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{requestRefund.ErrTransactionNotFound, http.StatusNotFound},
		{requestRefund.ErrAccessDenied, http.StatusForbidden},
		{requestRefund.ErrRefundExceedsBalance, http.StatusConflict},
		{requestRefund.ErrRefundFailed, http.StatusBadGateway},
		{requestRefund.ErrInvalidInput, http.StatusBadRequest},
		{requestRefund.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tc.err}, testutil.NopLogger{})
			rec := doRequest(h, `{"amount":2000}`)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
