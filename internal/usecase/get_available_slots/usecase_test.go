package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const practitionerID = int64(7)

var (
	now   = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func slot(start, end string, mutate func(s *domain.TimeSlot)) domain.TimeSlot {
	s := domain.TimeSlot{
		PractitionerID: practitionerID,
		SlotDate:       today,
		StartTime:      start,
		EndTime:        end,
		Timezone:       "UTC",
		MaxBookings:    2,
		IsAvailable:    true,
	}
	if mutate != nil {
		mutate(&s)
	}
	return s
}

func setup(t *testing.T) (*UseCase, *testutil.Store, *testutil.Offerings) {
	t.Helper()
	store := testutil.NewStore()
	offerings := testutil.NewOfferings()
	offerings.AddOffering(100, practitionerID, "50.00")
	offerings.AddOffering(200, practitionerID, "70.00")
	uc := NewUseCase(store.Slots, offerings, testutil.NopLogger{}).
		WithTimeProvider(&testutil.Clock{T: now})
	return uc, store, offerings
}

func TestExecute_FiltersBookableSlots(t *testing.T) {
	uc, store, _ := setup(t)

	store.Slots.Put(slot("09:00", "10:00", nil)) // уже прошел
	open := store.Slots.Put(slot("15:00", "16:00", func(s *domain.TimeSlot) { s.CurrentBookings = 1 }))
	store.Slots.Put(slot("16:00", "17:00", func(s *domain.TimeSlot) { s.CurrentBookings = 2 }))
	store.Slots.Put(slot("17:00", "18:00", func(s *domain.TimeSlot) { s.IsAvailable = false }))
	store.Slots.Put(slot("18:00", "19:00", func(s *domain.TimeSlot) { s.ServiceOfferingID = ptr.Ptr(int64(200)) }))
	dedicated := store.Slots.Put(slot("19:00", "20:00", func(s *domain.TimeSlot) { s.ServiceOfferingID = ptr.Ptr(int64(100)) }))
	store.Slots.Put(slot("15:00", "16:00", func(s *domain.TimeSlot) { s.PractitionerID = 8 }))

	resp, err := uc.Execute(context.Background(), &Request{ServiceOfferingID: 100, Date: today})
	require.NoError(t, err)

	assert.Equal(t, practitionerID, resp.PractitionerID)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, open.ID, resp.Slots[0].SlotID)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[0].TotalSpots)
	assert.Equal(t, dedicated.ID, resp.Slots[1].SlotID)
}

func TestExecute_NoSlots(t *testing.T) {
	uc, _, _ := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{ServiceOfferingID: 100, Date: today.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		req     *Request
		prepare func(o *testutil.Offerings)
		wantErr error
	}{
		{"missing offering id", &Request{Date: today}, nil, ErrInvalidInput},
		{"missing date", &Request{ServiceOfferingID: 100}, nil, ErrInvalidInput},
		{"past date", &Request{ServiceOfferingID: 100, Date: today.AddDate(0, 0, -1)}, nil, ErrInvalidDate},
		{"too far", &Request{ServiceOfferingID: 100, Date: today.AddDate(0, 0, domain.MaxAdvanceBookingDays+1)}, nil, ErrDateTooFarInFuture},
		{"unknown offering", &Request{ServiceOfferingID: 999, Date: today}, nil, ErrOfferingNotFound},
		{
			name:    "inactive offering",
			req:     &Request{ServiceOfferingID: 100, Date: today},
			prepare: func(o *testutil.Offerings) { o.SetActive(100, false) },
			wantErr: ErrOfferingInactive,
		},
		{
			name:    "offering service down",
			req:     &Request{ServiceOfferingID: 100, Date: today},
			prepare: func(o *testutil.Offerings) { o.Err = errors.New("connection refused") },
			wantErr: ErrInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, offerings := setup(t)
			if tc.prepare != nil {
				tc.prepare(offerings)
			}

			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
