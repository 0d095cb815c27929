package request_refund

import (
	"context"

	requestRefund "github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

type RequestRefundUseCase interface {
	Execute(ctx context.Context, req *requestRefund.Request) (*requestRefund.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
