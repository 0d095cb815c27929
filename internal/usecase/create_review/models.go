package create_review

import "time"

// Request модель запроса на создание отзыва
type Request struct {
	BookingID  int64
	ReviewerID int64
	Rating     int
	Comment    *string
}

// Response модель ответа с созданным отзывом
type Response struct {
	ID             int64
	BookingID      int64
	ReviewerID     int64
	PractitionerID int64
	Rating         int
	Comment        *string
	CreatedAt      time.Time
}
