package confirm_payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	confirmPayment "github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
)

type fakeUseCase struct {
	got *confirmPayment.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	txnID := int64(9)
	return &confirmPayment.Response{
		IntentID:      req.IntentID,
		BookingID:     4,
		IntentStatus:  "succeeded",
		BookingStatus: "confirmed",
		PaymentStatus: "paid",
		TransactionID: &txnID,
		ProcessingFee: 262,
	}, nil
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-intents/12/confirm", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"intentId": "12"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 5))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Confirms(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, testutil.NopLogger{})

	rec := doRequest(h, `{"paymentMethodId":"pm_card_visa"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), uc.got.IntentID)
	assert.Equal(t, int64(5), uc.got.SeekerID)
	assert.Equal(t, "pm_card_visa", uc.got.PaymentMethodID)

	var resp ConfirmPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.BookingStatus)
	require.NotNil(t, resp.TransactionID)
	assert.Equal(t, int64(9), *resp.TransactionID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{confirmPayment.ErrIntentNotFound, http.StatusNotFound},
		{confirmPayment.ErrAccessDenied, http.StatusForbidden},
		{confirmPayment.ErrIntentClosed, http.StatusConflict},
		{confirmPayment.ErrInvalidTransition, http.StatusConflict},
		{confirmPayment.ErrBookingNoLongerPending, http.StatusConflict},
		{confirmPayment.ErrPaymentDeclined, http.StatusPaymentRequired},
		{confirmPayment.ErrPaymentProvider, http.StatusBadGateway},
		{confirmPayment.ErrAmountMismatch, http.StatusInternalServerError},
		{confirmPayment.ErrInvalidInput, http.StatusBadRequest},
		{confirmPayment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: fmt.Errorf("%w: details", tc.err)}, testutil.NopLogger{})
			rec := doRequest(h, `{"paymentMethodId":"pm_card_visa"}`)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
