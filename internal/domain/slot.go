package domain

import "time"

// TimeSlot is a bookable capacity unit published by a practitioner
type TimeSlot struct {
	ID                int64
	PractitionerID    int64
	ServiceOfferingID *int64 // nil = any offering of the practitioner
	SlotDate          time.Time
	StartTime         string // HH:MM
	EndTime           string // HH:MM
	Timezone          string
	MaxBookings       int
	CurrentBookings   int
	IsAvailable       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsReservable returns true if one more unit of capacity can be taken
func (s *TimeSlot) IsReservable() bool {
	return s.IsAvailable && s.CurrentBookings < s.MaxBookings
}

// AvailableSpots remaining capacity
func (s *TimeSlot) AvailableSpots() int {
	if !s.IsAvailable || s.CurrentBookings >= s.MaxBookings {
		return 0
	}
	return s.MaxBookings - s.CurrentBookings
}

// AcceptsOffering returns true if the slot may be used for the given offering of the given practitioner
func (s *TimeSlot) AcceptsOffering(practitionerID, offeringID int64) bool {
	if s.PractitionerID != practitionerID {
		return false
	}
	return s.ServiceOfferingID == nil || *s.ServiceOfferingID == offeringID
}

// Start returns the absolute start of the slot in its own timezone
func (s *TimeSlot) Start() (time.Time, error) {
	return combineDateTime(s.SlotDate, s.StartTime, s.Timezone)
}
