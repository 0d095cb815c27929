package mark_attendance

import (
	"time"

	completeBooking "github.com/m04kA/SessionBookingService/internal/usecase/complete_booking"
)

// MarkAttendanceRequest HTTP request model
type MarkAttendanceRequest struct {
	Attended     *bool   `json:"attended"` // false - клиент не пришел (no_show)
	SessionNotes *string `json:"sessionNotes,omitempty"`
}

// MarkAttendanceResponse HTTP response model
type MarkAttendanceResponse struct {
	BookingID   int64  `json:"bookingId"`
	Status      string `json:"status"`
	CompletedAt string `json:"completedAt"`
}

func (r *MarkAttendanceRequest) ToUseCaseRequest(bookingID, userID int64) *completeBooking.Request {
	return &completeBooking.Request{
		BookingID:      bookingID,
		PractitionerID: userID,
		Attended:       *r.Attended,
		SessionNotes:   r.SessionNotes,
	}
}

func FromUseCaseResponse(resp *completeBooking.Response) *MarkAttendanceResponse {
	return &MarkAttendanceResponse{
		BookingID:   resp.BookingID,
		Status:      resp.Status,
		CompletedAt: resp.CompletedAt.Format(time.RFC3339),
	}
}
