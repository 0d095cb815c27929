package complete_booking

import "time"

// Request модель запроса на отметку посещаемости
type Request struct {
	BookingID      int64
	PractitionerID int64
	Attended       bool    // true - completed, false - no_show
	SessionNotes   *string // заметки практика по итогам сессии
}

// Response модель ответа
type Response struct {
	BookingID   int64
	Status      string
	CompletedAt time.Time
}
