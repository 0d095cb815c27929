package models

import (
	"errors"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("start date is after end date")
)

// Request модели

// GetSeekerBookingsRequest запрос на получение бронирований ищущего
type GetSeekerBookingsRequest struct {
	UserID   int64   `json:"userId"`
	SeekerID int64   `json:"seekerId"`
	Status   *string `json:"status,omitempty"`
}

// GetPractitionerBookingsRequest запрос на получение бронирований практика
type GetPractitionerBookingsRequest struct {
	UserID         int64      `json:"userId"`
	PractitionerID int64      `json:"practitionerId"`
	StartDate      *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate        *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status         *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPractitionerBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		PractitionerID: r.PractitionerID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                int64  `json:"id"`
	SeekerID          int64  `json:"seekerId"`
	PractitionerID    int64  `json:"practitionerId"`
	ServiceOfferingID int64  `json:"serviceOfferingId"`
	TimeSlotID        *int64 `json:"timeSlotId,omitempty"`
	SessionDate       string `json:"sessionDate"` // "2025-10-15"
	StartTime         string `json:"startTime"`   // "10:00"
	EndTime           string `json:"endTime"`
	Timezone          string `json:"timezone"`
	SessionType       string `json:"sessionType"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"paymentStatus"`

	// Цена фиксируется при создании; строка, чтобы не терять точность
	AgreedPrice string `json:"agreedPrice"`
	Currency    string `json:"currency"`

	PrepNotes    *string `json:"prepNotes,omitempty"`
	SessionNotes *string `json:"sessionNotes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CompletedAt        *string `json:"completedAt,omitempty"`

	// Только в ответе на запрос одного бронирования
	Review *ReviewResponse `json:"review,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewResponse отзыв ищущего о завершенной сессии
type ReviewResponse struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		SeekerID:           b.SeekerID,
		PractitionerID:     b.PractitionerID,
		ServiceOfferingID:  b.ServiceOfferingID,
		TimeSlotID:         b.TimeSlotID,
		SessionDate:        b.SessionDate.Format(domain.DateFormat),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Timezone:           b.Timezone,
		SessionType:        string(b.SessionType),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AgreedPrice:        b.AgreedPrice.StringFixed(2),
		Currency:           b.Currency,
		PrepNotes:          b.PrepNotes,
		SessionNotes:       b.SessionNotes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		resp.CancelledBy = &actor
	}
	resp.CancelledAt = formatTime(b.CancelledAt)
	resp.CompletedAt = formatTime(b.CompletedAt)

	return resp
}

// FromDomainReview конвертирует domain отзыв в DTO
func FromDomainReview(r *domain.Review) *ReviewResponse {
	if r == nil {
		return nil
	}
	return &ReviewResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
