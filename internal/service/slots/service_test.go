package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const (
	practitionerID = int64(7)
	otherID        = int64(8)
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *testutil.Store, *testutil.Offerings) {
	t.Helper()
	store := testutil.NewStore()
	offerings := testutil.NewOfferings()
	offerings.AddOffering(100, practitionerID, "50.00")
	offerings.AddOffering(200, otherID, "50.00")
	svc := NewService(store.Slots, offerings, testutil.NopLogger{}).
		WithTimeProvider(&testutil.Clock{T: now})
	return svc, store, offerings
}

func publishRequest() *models.PublishSlotRequest {
	return &models.PublishSlotRequest{
		UserID:         practitionerID,
		PractitionerID: practitionerID,
		SlotDate:       "2026-03-11",
		StartTime:      "09:00",
		EndTime:        "10:00",
		Timezone:       "UTC",
		MaxBookings:    3,
	}
}

func TestPublish(t *testing.T) {
	svc, _, _ := setup(t)

	req := publishRequest()
	req.ServiceOfferingID = ptr.Ptr(int64(100))
	resp, err := svc.Publish(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "2026-03-11", resp.SlotDate)
	assert.Equal(t, 0, resp.CurrentBookings)
	assert.Equal(t, 3, resp.AvailableSpots)
	assert.True(t, resp.IsAvailable)
}

func TestPublish_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.PublishSlotRequest)
		wantErr error
	}{
		{"other user", func(r *models.PublishSlotRequest) { r.UserID = otherID }, ErrAccessDenied},
		{"zero capacity", func(r *models.PublishSlotRequest) { r.MaxBookings = 0 }, ErrInvalidInput},
		{"capacity above limit", func(r *models.PublishSlotRequest) { r.MaxBookings = 101 }, ErrInvalidInput},
		{"end before start", func(r *models.PublishSlotRequest) { r.EndTime = "08:00" }, ErrInvalidInput},
		{"bad date", func(r *models.PublishSlotRequest) { r.SlotDate = "11.03.2026" }, ErrInvalidInput},
		{"in the past", func(r *models.PublishSlotRequest) { r.SlotDate = "2026-03-09" }, ErrInvalidInput},
		{"earlier today", func(r *models.PublishSlotRequest) { r.SlotDate = "2026-03-10" }, ErrInvalidInput},
		{"unknown offering", func(r *models.PublishSlotRequest) { r.ServiceOfferingID = ptr.Ptr(int64(999)) }, ErrOfferingNotFound},
		{"foreign offering", func(r *models.PublishSlotRequest) { r.ServiceOfferingID = ptr.Ptr(int64(200)) }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setup(t)
			req := publishRequest()
			tt.mutate(req)

			_, err := svc.Publish(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestList(t *testing.T) {
	svc, _, _ := setup(t)
	for _, date := range []string{"2026-03-11", "2026-03-11", "2026-03-12"} {
		req := publishRequest()
		req.SlotDate = date
		_, err := svc.Publish(context.Background(), req)
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), &models.ListSlotsRequest{PractitionerID: practitionerID})
	require.NoError(t, err)
	assert.Len(t, all.Slots, 3)

	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	oneDay, err := svc.List(context.Background(), &models.ListSlotsRequest{PractitionerID: practitionerID, Date: &day})
	require.NoError(t, err)
	assert.Len(t, oneDay.Slots, 1)

	none, err := svc.List(context.Background(), &models.ListSlotsRequest{PractitionerID: otherID})
	require.NoError(t, err)
	assert.Empty(t, none.Slots)
}

func TestSetAvailability(t *testing.T) {
	svc, store, _ := setup(t)
	created, err := svc.Publish(context.Background(), publishRequest())
	require.NoError(t, err)

	_, err = svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{UserID: otherID, SlotID: created.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{UserID: practitionerID, SlotID: created.ID})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	assert.Equal(t, 0, resp.AvailableSpots)

	stored, err := store.Slots.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	_, err = svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{UserID: practitionerID, SlotID: 999})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDelete(t *testing.T) {
	svc, store, _ := setup(t)
	created, err := svc.Publish(context.Background(), publishRequest())
	require.NoError(t, err)

	require.NoError(t, store.Slots.Reserve(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, practitionerID), ErrSlotNotDeletable)
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, otherID), ErrAccessDenied)

	require.NoError(t, store.Slots.Release(context.Background(), created.ID))
	require.NoError(t, svc.Delete(context.Background(), created.ID, practitionerID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
