// Package reaper периодически отменяет бронирования, которые слишком долго висят в pending без оплаты,
// и возвращает их места в слоты.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
)

// Config параметры обхода
type Config struct {
	Interval       time.Duration // Период между обходами
	AbandonedAfter time.Duration // Возраст pending бронирования, после которого оно считается брошенным
	BatchSize      int           // Максимум бронирований за один обход
}

// Reaper фоновая отмена брошенных бронирований
type Reaper struct {
	bookingRepo  BookingRepository
	canceller    Canceller
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// New создает новый экземпляр reaper
func New(bookingRepo BookingRepository, canceller Canceller, metrics Metrics, logger Logger, cfg Config) *Reaper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultReaperBatchSize
	}
	if cfg.AbandonedAfter <= 0 {
		cfg.AbandonedAfter = domain.DefaultAbandonedMinutes * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Reaper{
		bookingRepo:  bookingRepo,
		canceller:    canceller,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (r *Reaper) WithTimeProvider(tp TimeProvider) *Reaper {
	r.timeProvider = tp
	return r
}

// Run выполняет обходы до отмены контекста. Первый обход выполняется сразу
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("Reaper: started, interval=%s, abandonedAfter=%s, batch=%d",
		r.cfg.Interval, r.cfg.AbandonedAfter, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.SweepOnce(ctx); err != nil {
			r.logger.Error("Reaper: sweep failed: %v", err)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Reaper: stopped")
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce отменяет одну партию брошенных бронирований и возвращает количество отмененных.
// Бронирование, успевшее уйти из pending, пропускается: отмена защищена исходным статусом
func (r *Reaper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := r.timeProvider.Now().Add(-r.cfg.AbandonedAfter)

	bookings, err := r.bookingRepo.ListAbandoned(ctx, cutoff, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list abandoned bookings: %w", err)
	}
	if len(bookings) == 0 {
		return 0, nil
	}

	cancelled := 0
	for _, b := range bookings {
		if ctx.Err() != nil {
			return cancelled, ctx.Err()
		}

		_, err := r.canceller.Execute(ctx, &cancel_booking.Request{
			BookingID:      b.ID,
			Reason:         domain.ReasonPaymentTimeout,
			System:         true,
			ExpectedStatus: domain.StatusPending,
		})
		switch {
		case err == nil:
			cancelled++
			r.metrics.IncReaperCancelled()
		case errors.Is(err, cancel_booking.ErrInvalidTransition):
			r.logger.Info("Reaper: booking id=%d left pending before it was reaped", b.ID)
		default:
			r.logger.Warn("Reaper: failed to cancel booking id=%d: %v", b.ID, err)
		}
	}

	r.logger.Info("Reaper: cancelled %d of %d abandoned bookings", cancelled, len(bookings))
	return cancelled, nil
}
