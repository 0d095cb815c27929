package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg, "test")

	m.IncSlotReservation("reserved")
	m.IncSlotReservation("unavailable")
	m.IncSlotReservation("unavailable")
	m.IncBookingsCreated()
	m.ObserveHTTPRequest("POST", "/api/v1/bookings", 201, 15*time.Millisecond)
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))
	m.SetDBStats(sql.DBStats{OpenConnections: 3, InUse: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotReservations.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("exec")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbOpenConns.WithLabelValues()))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncBookingsCreated()
	m.IncSlotReservation("reserved")
	m.IncBookingTransition("pending", "confirmed")
	m.IncPaymentIntent("created")
	m.IncRefund("succeeded")
	m.IncConsistencyError("amount_mismatch")
	m.IncReaperCancelled()
	m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	m.ObserveDBQuery("query", time.Second, nil)
	m.SetDBStats(sql.DBStats{})
}
