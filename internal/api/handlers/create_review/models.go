package create_review

import (
	"time"

	createReview "github.com/m04kA/SessionBookingService/internal/usecase/create_review"
)

// CreateReviewRequest HTTP request model
type CreateReviewRequest struct {
	Rating  int     `json:"rating"` // 1..5
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse HTTP response model
type ReviewResponse struct {
	ID             int64   `json:"id"`
	BookingID      int64   `json:"bookingId"`
	ReviewerID     int64   `json:"reviewerId"`
	PractitionerID int64   `json:"practitionerId"`
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

func (r *CreateReviewRequest) ToUseCaseRequest(bookingID, userID int64) *createReview.Request {
	return &createReview.Request{
		BookingID:  bookingID,
		ReviewerID: userID,
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}

func FromUseCaseResponse(resp *createReview.Response) *ReviewResponse {
	return &ReviewResponse{
		ID:             resp.ID,
		BookingID:      resp.BookingID,
		ReviewerID:     resp.ReviewerID,
		PractitionerID: resp.PractitionerID,
		Rating:         resp.Rating,
		Comment:        resp.Comment,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
