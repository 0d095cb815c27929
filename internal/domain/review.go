package domain

import "time"

// Review left by a seeker for a completed booking, at most one per booking
type Review struct {
	ID             int64
	BookingID      int64
	ReviewerID     int64
	PractitionerID int64
	Rating         int
	Comment        *string
	CreatedAt      time.Time
}

// CanReview checks the review gate: completed booking, reviewer is the seeker
func (b *Booking) CanReview(reviewerID int64) bool {
	return b.Status == StatusCompleted && b.SeekerID == reviewerID
}
