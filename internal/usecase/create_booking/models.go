package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	SeekerID          int64              // ID искателя
	ServiceOfferingID int64              // ID услуги
	TimeSlotID        *int64             // ID слота (nil - бронирование без слота)
	SessionDate       time.Time          // Дата сессии (игнорируется при наличии слота)
	StartTime         string             // Время начала HH:MM (игнорируется при наличии слота)
	EndTime           string             // Время окончания HH:MM (игнорируется при наличии слота)
	Timezone          string             // Часовой пояс сессии
	SessionType       domain.SessionType // remote | in_person, по умолчанию remote
	PrepNotes         *string            // Заметки к подготовке (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                int64
	SeekerID          int64
	PractitionerID    int64
	ServiceOfferingID int64
	TimeSlotID        *int64
	SessionDate       time.Time
	StartTime         string
	EndTime           string
	Timezone          string
	SessionType       string
	Status            string
	PaymentStatus     string
	AgreedPrice       decimal.Decimal // Цена, зафиксированная при создании
	Currency          string
	PrepNotes         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		SeekerID:          b.SeekerID,
		PractitionerID:    b.PractitionerID,
		ServiceOfferingID: b.ServiceOfferingID,
		TimeSlotID:        b.TimeSlotID,
		SessionDate:       b.SessionDate,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Timezone:          b.Timezone,
		SessionType:       string(b.SessionType),
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		AgreedPrice:       b.AgreedPrice,
		Currency:          b.Currency,
		PrepNotes:         b.PrepNotes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
