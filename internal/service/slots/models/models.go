package models

import (
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// Request модели

// PublishSlotRequest запрос на публикацию слота
type PublishSlotRequest struct {
	UserID            int64  `json:"userId"`
	PractitionerID    int64  `json:"practitionerId"`
	ServiceOfferingID *int64 `json:"serviceOfferingId,omitempty"` // NULL = для всех услуг практика
	SlotDate          string `json:"slotDate"`                    // "2025-10-15"
	StartTime         string `json:"startTime"`                   // "10:00"
	EndTime           string `json:"endTime"`                     // "11:00"
	Timezone          string `json:"timezone"`
	MaxBookings       int    `json:"maxBookings"` // 1 = индивидуальная сессия
}

// ToDomainSlot конвертирует PublishSlotRequest в domain модель
func (r *PublishSlotRequest) ToDomainSlot(date time.Time) *domain.TimeSlot {
	return &domain.TimeSlot{
		PractitionerID:    r.PractitionerID,
		ServiceOfferingID: r.ServiceOfferingID,
		SlotDate:          date,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Timezone:          r.Timezone,
		MaxBookings:       r.MaxBookings,
		IsAvailable:       true,
	}
}

// SetAvailabilityRequest запрос на открытие/закрытие слота
type SetAvailabilityRequest struct {
	UserID      int64 `json:"userId"`
	SlotID      int64 `json:"slotId"`
	IsAvailable bool  `json:"isAvailable"`
}

// ListSlotsRequest запрос на получение слотов практика
type ListSlotsRequest struct {
	PractitionerID int64      `json:"practitionerId"`
	Date           *time.Time `json:"date,omitempty"` // nil = все даты
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID                int64     `json:"id"`
	PractitionerID    int64     `json:"practitionerId"`
	ServiceOfferingID *int64    `json:"serviceOfferingId,omitempty"`
	SlotDate          string    `json:"slotDate"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	Timezone          string    `json:"timezone"`
	MaxBookings       int       `json:"maxBookings"`
	CurrentBookings   int       `json:"currentBookings"`
	AvailableSpots    int       `json:"availableSpots"`
	IsAvailable       bool      `json:"isAvailable"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:                s.ID,
		PractitionerID:    s.PractitionerID,
		ServiceOfferingID: s.ServiceOfferingID,
		SlotDate:          s.SlotDate.Format(domain.DateFormat),
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Timezone:          s.Timezone,
		MaxBookings:       s.MaxBookings,
		CurrentBookings:   s.CurrentBookings,
		AvailableSpots:    s.AvailableSpots(),
		IsAvailable:       s.IsAvailable,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
