// Package testutil содержит in-memory реализации репозиториев и внешних клиентов для тестов use case.
// Ошибки совпадают с ошибками настоящих репозиториев, поэтому use case обрабатывает их так же.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	reviewRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/review"
	slotRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/slot"
)

// Store общее состояние in-memory "базы"
type Store struct {
	mu  sync.Mutex
	seq int64

	slots        map[int64]*domain.TimeSlot
	bookings     map[int64]*domain.Booking
	intents      map[int64]*domain.PaymentIntent
	transactions map[int64]*domain.PaymentTransaction
	refunds      map[int64]*domain.PaymentRefund
	reviews      map[int64]*domain.Review // по booking_id

	Now func() time.Time

	Slots    *Slots
	Bookings *Bookings
	Payments *Payments
	Reviews  *Reviews
	Tx       *TxManager
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	s := &Store{
		slots:        make(map[int64]*domain.TimeSlot),
		bookings:     make(map[int64]*domain.Booking),
		intents:      make(map[int64]*domain.PaymentIntent),
		transactions: make(map[int64]*domain.PaymentTransaction),
		refunds:      make(map[int64]*domain.PaymentRefund),
		reviews:      make(map[int64]*domain.Review),
		Now:          time.Now,
	}
	s.Slots = &Slots{s: s}
	s.Bookings = &Bookings{s: s}
	s.Payments = &Payments{s: s}
	s.Reviews = &Reviews{s: s}
	s.Tx = &TxManager{s: s}
	return s
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// ---- транзакции ----

type txKey struct{}

type memTx struct {
	undo []func()
}

// TxManager выполняет fn "в транзакции": при ошибке изменения откатываются через журнал отмены
type TxManager struct {
	s     *Store
	Calls int
}

// Do выполняет fn; вложенный вызов переиспользует внешнюю транзакцию
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(ctx)
	}

	m.s.mu.Lock()
	m.Calls++
	m.s.mu.Unlock()

	tx := &memTx{}
	err := fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		m.s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		m.s.mu.Unlock()
	}
	return err
}

// record регистрирует откат изменения; вызывается под s.mu
func (s *Store) record(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

// ---- слоты ----

// Slots in-memory репозиторий слотов
type Slots struct {
	s *Store
}

// Put добавляет слот как есть
func (r *Slots) Put(slot domain.TimeSlot) *domain.TimeSlot {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if slot.ID == 0 {
		slot.ID = r.s.nextID()
	}
	r.s.slots[slot.ID] = &slot
	cp := slot
	return &cp
}

func (r *Slots) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot.ID = r.s.nextID()
	slot.CurrentBookings = 0
	slot.CreatedAt = r.s.Now()
	slot.UpdatedAt = slot.CreatedAt
	cp := *slot
	r.s.slots[slot.ID] = &cp
	id := slot.ID
	r.s.record(ctx, func() { delete(r.s.slots, id) })
	return slot, nil
}

func (r *Slots) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

func (r *Slots) ListByPractitioner(ctx context.Context, practitionerID int64, date *time.Time) ([]*domain.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.TimeSlot, 0)
	for _, slot := range r.s.slots {
		if slot.PractitionerID != practitionerID {
			continue
		}
		if date != nil && !sameDay(slot.SlotDate, *date) {
			continue
		}
		cp := *slot
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SlotDate.Equal(out[j].SlotDate) {
			return out[i].SlotDate.Before(out[j].SlotDate)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// Reserve проверяет и увеличивает счетчик одним атомарным шагом
func (r *Slots) Reserve(ctx context.Context, slotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok || !slot.IsReservable() {
		return slotRepo.ErrSlotUnavailable
	}
	slot.CurrentBookings++
	r.s.record(ctx, func() { slot.CurrentBookings-- })
	return nil
}

func (r *Slots) Release(ctx context.Context, slotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
		r.s.record(ctx, func() { slot.CurrentBookings++ })
	}
	return nil
}

func (r *Slots) SetAvailability(ctx context.Context, slotID int64, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	prev := slot.IsAvailable
	slot.IsAvailable = available
	r.s.record(ctx, func() { slot.IsAvailable = prev })
	return nil
}

func (r *Slots) Delete(ctx context.Context, slotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if slot.CurrentBookings > 0 {
		return slotRepo.ErrSlotNotDeletable
	}
	delete(r.s.slots, slotID)
	r.s.record(ctx, func() { r.s.slots[slotID] = slot })
	return nil
}

// ---- бронирования ----

// Bookings in-memory репозиторий бронирований
type Bookings struct {
	s *Store

	// CreateErr если задан, Create возвращает эту ошибку
	CreateErr error
}

// Put добавляет бронирование как есть
func (r *Bookings) Put(b domain.Booking) *domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.s.nextID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.s.Now()
	}
	r.s.bookings[b.ID] = &b
	cp := b
	return &cp
}

func (r *Bookings) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	b.ID = r.s.nextID()
	b.CreatedAt = r.s.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.s.bookings[b.ID] = &cp
	id := b.ID
	r.s.record(ctx, func() { delete(r.s.bookings, id) })
	return b, nil
}

func (r *Bookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *Bookings) ListBySeeker(ctx context.Context, seekerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		return b.SeekerID == seekerID && (status == nil || b.Status == *status)
	}), nil
}

func (r *Bookings) ListByPractitioner(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		if b.PractitionerID != f.PractitionerID {
			return false
		}
		if f.StartDate != nil && b.SessionDate.Before(*f.StartDate) {
			return false
		}
		if f.EndDate != nil && b.SessionDate.After(*f.EndDate) {
			return false
		}
		return f.Status == nil || b.Status == *f.Status
	}), nil
}

func (r *Bookings) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Booking, error) {
	out := r.filter(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && b.CreatedAt.Before(cutoff)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Bookings) filter(keep func(*domain.Booking) bool) []*domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Transition меняет статус только из ожидаемых исходных статусов
func (r *Bookings) Transition(
	ctx context.Context,
	id int64,
	from []domain.BookingStatus,
	to domain.BookingStatus,
	upd bookingRepo.TransitionUpdate,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrStatusConflict
	}
	matched := false
	for _, s := range from {
		if b.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return bookingRepo.ErrStatusConflict
	}

	prev := *b
	now := r.s.Now()
	b.Status = to
	if upd.PaymentStatus != nil {
		b.PaymentStatus = *upd.PaymentStatus
	}
	if upd.CancellationReason != nil {
		reason := *upd.CancellationReason
		b.CancellationReason = &reason
	}
	if upd.CancelledBy != nil {
		actor := *upd.CancelledBy
		b.CancelledBy = &actor
	}
	if upd.SessionNotes != nil {
		notes := *upd.SessionNotes
		b.SessionNotes = &notes
	}
	if upd.MarkCancelled {
		b.CancelledAt = &now
	}
	if upd.MarkCompleted {
		b.CompletedAt = &now
	}
	b.UpdatedAt = now
	r.s.record(ctx, func() { *b = prev })
	return nil
}

func (r *Bookings) SetPaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	prev := b.PaymentStatus
	b.PaymentStatus = status
	r.s.record(ctx, func() { b.PaymentStatus = prev })
	return nil
}

// ---- отзывы ----

// Reviews in-memory репозиторий отзывов
type Reviews struct {
	s *Store
}

func (r *Reviews) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.reviews[review.BookingID]; exists {
		return nil, reviewRepo.ErrReviewExists
	}
	review.ID = r.s.nextID()
	review.CreatedAt = r.s.Now()
	cp := *review
	r.s.reviews[review.BookingID] = &cp
	bookingID := review.BookingID
	r.s.record(ctx, func() { delete(r.s.reviews, bookingID) })
	return review, nil
}

func (r *Reviews) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[bookingID]
	if !ok {
		return nil, reviewRepo.ErrReviewNotFound
	}
	cp := *review
	return &cp, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
