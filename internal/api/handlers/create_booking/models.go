package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	createBooking "github.com/m04kA/SessionBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceOfferingID int64   `json:"serviceOfferingId"`
	TimeSlotID        *int64  `json:"timeSlotId,omitempty"`
	SessionDate       string  `json:"sessionDate,omitempty"` // "2025-10-15", только без слота
	StartTime         string  `json:"startTime,omitempty"`   // "10:00"
	EndTime           string  `json:"endTime,omitempty"`     // "11:00"
	Timezone          string  `json:"timezone,omitempty"`
	SessionType       string  `json:"sessionType,omitempty"` // remote | in_person
	PrepNotes         *string `json:"prepNotes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	SeekerID          int64   `json:"seekerId"`
	PractitionerID    int64   `json:"practitionerId"`
	ServiceOfferingID int64   `json:"serviceOfferingId"`
	TimeSlotID        *int64  `json:"timeSlotId,omitempty"`
	SessionDate       string  `json:"sessionDate"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	Timezone          string  `json:"timezone"`
	SessionType       string  `json:"sessionType"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	AgreedPrice       string  `json:"agreedPrice"`
	Currency          string  `json:"currency"`
	PrepNotes         *string `json:"prepNotes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(seekerID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		SeekerID:          seekerID,
		ServiceOfferingID: r.ServiceOfferingID,
		TimeSlotID:        r.TimeSlotID,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Timezone:          r.Timezone,
		SessionType:       domain.SessionType(r.SessionType),
		PrepNotes:         r.PrepNotes,
	}

	// Дата обязательна только для бронирования без слота
	if r.SessionDate != "" {
		date, err := time.Parse(domain.DateFormat, r.SessionDate)
		if err != nil {
			return nil, fmt.Errorf("invalid sessionDate: %w", err)
		}
		req.SessionDate = date
	} else if r.TimeSlotID == nil {
		return nil, fmt.Errorf("sessionDate is required without timeSlotId")
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		SeekerID:          resp.SeekerID,
		PractitionerID:    resp.PractitionerID,
		ServiceOfferingID: resp.ServiceOfferingID,
		TimeSlotID:        resp.TimeSlotID,
		SessionDate:       resp.SessionDate.Format(domain.DateFormat),
		StartTime:         resp.StartTime,
		EndTime:           resp.EndTime,
		Timezone:          resp.Timezone,
		SessionType:       resp.SessionType,
		Status:            resp.Status,
		PaymentStatus:     resp.PaymentStatus,
		AgreedPrice:       resp.AgreedPrice.StringFixed(2),
		Currency:          resp.Currency,
		PrepNotes:         resp.PrepNotes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
