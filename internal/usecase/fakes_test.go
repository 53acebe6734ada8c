package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/scheduling"

	"github.com/google/uuid"
)

// In-memory fakes honoring the repository contracts, so the services can be
// exercised without Postgres. The booking fake reproduces the write-path
// guarantee: conflict re-check and insert happen under one lock.

type fakeBranchRepo struct {
	branches map[uuid.UUID]*entity.Branch
	hours    map[uuid.UUID][]*entity.BranchHour
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{
		branches: make(map[uuid.UUID]*entity.Branch),
		hours:    make(map[uuid.UUID][]*entity.BranchHour),
	}
}

func (f *fakeBranchRepo) Create(ctx context.Context, branch *entity.Branch) error {
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Update(ctx context.Context, branch *entity.Branch) error {
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	return f.branches[id], nil
}

func (f *fakeBranchRepo) FindAllActive(ctx context.Context) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range f.branches {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBranchRepo) FindHours(ctx context.Context, branchID uuid.UUID) ([]*entity.BranchHour, error) {
	return f.hours[branchID], nil
}

func (f *fakeBranchRepo) ReplaceHours(ctx context.Context, branchID uuid.UUID, hours []*entity.BranchHour) error {
	f.hours[branchID] = hours
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*entity.Service)}
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *entity.Service) error {
	f.services[service.ID] = service
	return nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, service *entity.Service) error {
	f.services[service.ID] = service
	return nil
}

func (f *fakeServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	return f.services[id], nil
}

func (f *fakeServiceRepo) FindAllActive(ctx context.Context) ([]*entity.Service, error) {
	var out []*entity.Service
	for _, s := range f.services {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	staff    map[uuid.UUID]*entity.Staff
	services map[uuid.UUID][]uuid.UUID
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		staff:    make(map[uuid.UUID]*entity.Staff),
		services: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	f.staff[staff.ID] = staff
	return nil
}

func (f *fakeStaffRepo) Update(ctx context.Context, staff *entity.Staff) error {
	f.staff[staff.ID] = staff
	return nil
}

func (f *fakeStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	return f.staff[id], nil
}

func (f *fakeStaffRepo) FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]*entity.Staff, error) {
	var out []*entity.Staff
	for _, m := range f.staff {
		if m.BranchID == branchID && m.IsActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeStaffRepo) FindQualified(ctx context.Context, branchID, serviceID uuid.UUID) ([]*entity.Staff, error) {
	var out []*entity.Staff
	for _, m := range f.staff {
		if m.BranchID != branchID || !m.IsActive {
			continue
		}
		for _, sid := range f.services[m.ID] {
			if sid == serviceID {
				out = append(out, m)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeStaffRepo) FindServiceIDs(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	return f.services[staffID], nil
}

func (f *fakeStaffRepo) SetServices(ctx context.Context, staffID uuid.UUID, serviceIDs []uuid.UUID) error {
	f.services[staffID] = serviceIDs
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	history  map[uuid.UUID][]*entity.BookingHistory

	// beforeReschedule runs at the top of RescheduleIfFree, letting a test
	// slip a concurrent transition in between the caller's read and the move.
	beforeReschedule func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		history:  make(map[uuid.UUID][]*entity.BookingHistory),
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (f *fakeBookingRepo) blockingLocked(branchID uuid.UUID, date time.Time, exclude *uuid.UUID) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.BranchID != branchID || !sameDate(b.BookingDate, date) {
			continue
		}
		if !entity.IsBlockingStatus(b.Status) {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		out = append(out, b)
	}
	return out
}

// freeStaffLocked picks the least-loaded candidate free for the interval, ties
// by ascending id, matching the storage layer's assignment rule.
func freeStaffLocked(candidates []uuid.UUID, candidate scheduling.Interval, blocking []*entity.Booking) uuid.UUID {
	busy := make(map[uuid.UUID][]scheduling.Interval)
	load := make(map[uuid.UUID]int)
	for _, b := range blocking {
		start, err := scheduling.ParseTimeOfDay(b.BookingTime)
		if err != nil {
			continue
		}
		busy[b.StaffID] = append(busy[b.StaffID], scheduling.Interval{Start: start, DurationMinutes: b.DurationMinutes})
		load[b.StaffID]++
	}

	sorted := make([]uuid.UUID, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if load[sorted[i]] != load[sorted[j]] {
			return load[sorted[i]] < load[sorted[j]]
		}
		return sorted[i].String() < sorted[j].String()
	})

	for _, id := range sorted {
		if free, err := scheduling.IsSlotFree(candidate, busy[id]); err == nil && free {
			return id
		}
	}
	return uuid.Nil
}

func (f *fakeBookingRepo) appendHistoryLocked(bookingID uuid.UUID, from, to entity.BookingStatus, reason string) {
	f.history[bookingID] = append(f.history[bookingID], &entity.BookingHistory{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		BookingID:  bookingID,
		OldStatus:  from,
		NewStatus:  to,
		Reason:     reason,
	})
}

func (f *fakeBookingRepo) CreateIfFree(ctx context.Context, booking *entity.Booking, candidateStaffIDs []uuid.UUID, lockTimeout time.Duration) (*entity.Booking, error) {
	start, err := scheduling.ParseTimeOfDay(booking.BookingTime)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	blocking := f.blockingLocked(booking.BranchID, booking.BookingDate, nil)
	staffID := freeStaffLocked(candidateStaffIDs,
		scheduling.Interval{Start: start, DurationMinutes: booking.DurationMinutes}, blocking)
	if staffID == uuid.Nil {
		return nil, repository.ErrSlotConflict
	}

	stored := *booking
	stored.StaffID = staffID
	f.bookings[stored.ID] = &stored
	f.appendHistoryLocked(stored.ID, "", stored.Status, "booking created")

	result := stored
	return &result, nil
}

func (f *fakeBookingRepo) RescheduleIfFree(ctx context.Context, bookingID uuid.UUID, newDate time.Time, newTime string, lockTimeout time.Duration) (*entity.Booking, error) {
	start, err := scheduling.ParseTimeOfDay(newTime)
	if err != nil {
		return nil, err
	}

	if f.beforeReschedule != nil {
		f.beforeReschedule()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	if !entity.IsBlockingStatus(booking.Status) {
		return nil, repository.ErrStatusChanged
	}

	blocking := f.blockingLocked(booking.BranchID, newDate, &bookingID)
	if freeStaffLocked([]uuid.UUID{booking.StaffID},
		scheduling.Interval{Start: start, DurationMinutes: booking.DurationMinutes}, blocking) == uuid.Nil {
		return nil, repository.ErrSlotConflict
	}

	booking.BookingDate = newDate
	booking.BookingTime = newTime
	booking.UpdatedAt = time.Now()
	f.appendHistoryLocked(bookingID, booking.Status, booking.Status, "rescheduled")

	result := *booking
	return &result, nil
}

func (f *fakeBookingRepo) UpdateStatusWithHistory(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok || booking.Status != from {
		return repository.ErrStatusChanged
	}
	booking.Status = to
	f.appendHistoryLocked(bookingID, from, to, reason)
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	result := *booking
	return &result, nil
}

func (f *fakeBookingRepo) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Code == code {
			result := *b
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID != nil && *b.UserID == userID {
			result := *b
			out = append(out, &result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, b := range f.bookings {
		if b.UserID != nil && *b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindBlockingByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.blockingLocked(branchID, date, nil) {
		result := *b
		out = append(out, &result)
	}
	return out, nil
}

func (f *fakeBookingRepo) FindHistoryByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.BookingHistory(nil), f.history[bookingID]...), nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *payment
	f.payments[payment.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	result := *p
	return &result, nil
}

func (f *fakePaymentRepo) FindByTxnRef(ctx context.Context, txnRef string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.TxnRef == txnRef {
			result := *p
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			result := *p
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, bankCode *string, paidAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok && p.Status == entity.PaymentStatusPending {
		p.Status = entity.PaymentStatusCompleted
		p.BankCode = bankCode
		p.PaidAt = &paidAt
	}
	return nil
}

func (f *fakePaymentRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok {
		p.Status = entity.PaymentStatusFailed
	}
	return nil
}
