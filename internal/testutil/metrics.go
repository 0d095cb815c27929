package testutil

import (
	"sync"
	"time"
)

// Metrics записывает доменные метрики для проверок в тестах
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]int)}
}

// Count значение счетчика по ключу вида "slot_reservations:reserved"
func (m *Metrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

func (m *Metrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *Metrics) IncBookingsCreated() {
	m.inc("bookings_created")
}

func (m *Metrics) IncSlotReservation(result string) {
	m.inc("slot_reservations:" + result)
}

func (m *Metrics) IncBookingTransition(from, to string) {
	m.inc("booking_transitions:" + from + "->" + to)
}

func (m *Metrics) IncPaymentIntent(result string) {
	m.inc("payment_intents:" + result)
}

func (m *Metrics) IncRefund(result string) {
	m.inc("refunds:" + result)
}

func (m *Metrics) IncConsistencyError(kind string) {
	m.inc("consistency_errors:" + kind)
}

func (m *Metrics) IncReaperCancelled() {
	m.inc("reaper_cancelled")
}

// Clock фиксированное время для use case
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time {
	return c.T
}
