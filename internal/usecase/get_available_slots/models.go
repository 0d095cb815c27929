package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов услуги
type Request struct {
	ServiceOfferingID int64     // ID услуги
	Date              time.Time // Дата (без времени)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date              time.Time
	ServiceOfferingID int64
	PractitionerID    int64
	Slots             []Slot
}

// Slot свободный слот, в который можно забронировать услугу
type Slot struct {
	SlotID         int64
	StartTime      string // "10:00"
	EndTime        string
	Timezone       string
	AvailableSpots int // Количество свободных мест
	TotalSpots     int // Общее количество мест
}
