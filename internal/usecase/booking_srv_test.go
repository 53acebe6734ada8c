package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest(e *testEnv, timeOfDay string) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		BranchID:      e.branch.ID.String(),
		ServiceID:     e.service.ID.String(),
		Date:          testDateStr,
		Time:          timeOfDay,
		CustomerName:  "Linh Tran",
		CustomerPhone: "555-0123",
	}
}

func TestCreateBooking_AutoAssignsLeastLoaded(t *testing.T) {
	e := newTestEnv(t)
	// Staff A already has a morning booking, so the new one goes to B even
	// though A is also free at 14:00.
	e.seedBooking(t, testStaffAID, "09:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()

	booking, err := svc.CreateBooking(context.Background(), createRequest(e, "14:00"))
	require.NoError(t, err)
	assert.Equal(t, testStaffBID.String(), booking.StaffID)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, 60, booking.DurationMinutes)
	assert.Equal(t, e.service.Price, booking.Price)
	assert.NotEmpty(t, booking.Code)
}

func TestCreateBooking_TieBreaksByStaffID(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	booking, err := svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, testStaffAID.String(), booking.StaffID)
}

func TestCreateBooking_ExplicitStaff(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	req := createRequest(e, "10:00")
	staffB := testStaffBID.String()
	req.StaffID = &staffB

	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, staffB, booking.StaffID)
}

func TestCreateBooking_ExplicitStaffNotQualified(t *testing.T) {
	e := newTestEnv(t)
	staffRepo := e.repo.Staff.(*fakeStaffRepo)
	staffRepo.services[testStaffBID] = nil
	svc := e.bookingService()

	req := createRequest(e, "10:00")
	staffB := testStaffBID.String()
	req.StaffID = &staffB

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotEligible)
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	e.seedBooking(t, testStaffBID, "10:00", entity.BookingStatusPending)
	svc := e.bookingService()

	// 10:30 overlaps both 10:00-11:00 bookings.
	_, err := svc.CreateBooking(context.Background(), createRequest(e, "10:30"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBooking_ConcurrentSingleWinner(t *testing.T) {
	e := newTestEnv(t)
	// One qualified staff member means the slot has capacity exactly one.
	staffRepo := e.repo.Staff.(*fakeStaffRepo)
	staffRepo.services[testStaffBID] = nil
	svc := e.bookingService()

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, ErrSlotUnavailable)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)
}

func TestCreateBooking_BranchClosed(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	req := createRequest(e, "10:00")
	req.Date = testDate.AddDate(0, 0, 1).Format("2006-01-02")

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrBranchClosed)
}

func TestCreateBooking_OutsideOpeningHours(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	_, err := svc.CreateBooking(context.Background(), createRequest(e, "08:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// 17:30 + 60 minutes runs past the 18:00 close.
	_, err = svc.CreateBooking(context.Background(), createRequest(e, "17:30"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// 17:00 ends exactly at close and is fine.
	_, err = svc.CreateBooking(context.Background(), createRequest(e, "17:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_PastStartRejected(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()
	svc.now = func() time.Time {
		return time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 11, 0, 0, 0, time.Local)
	}

	_, err := svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCancelBooking(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	created, err := svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.CancelBooking(context.Background(), id, "changed my mind"))

	stored, err := e.bookings.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)

	history, err := e.bookings.FindHistoryByBookingID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.BookingStatusCancelled, history[1].NewStatus)
	assert.Equal(t, "changed my mind", history[1].Reason)
}

func TestCancelBooking_FreesTheSlot(t *testing.T) {
	e := newTestEnv(t)
	staffRepo := e.repo.Staff.(*fakeStaffRepo)
	staffRepo.services[testStaffBID] = nil
	svc := e.bookingService()

	created, err := svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	require.NoError(t, err)

	// Slot is full, a second attempt conflicts.
	_, err = svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	require.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, svc.CancelBooking(context.Background(), uuid.MustParse(created.ID), "illness"))

	// Cancelling released the capacity.
	_, err = svc.CreateBooking(context.Background(), createRequest(e, "10:00"))
	assert.NoError(t, err)
}

func TestCancelBooking_AlreadyTerminal(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusCompleted)
	svc := e.bookingService()

	err := svc.CancelBooking(context.Background(), booking.ID, "too late")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestCancelBooking_CutoffPassed(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()
	// 90 minutes before start, inside the 2 hour cancellation cutoff.
	svc.now = func() time.Time {
		return time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 8, 30, 0, 0, time.Local)
	}

	err := svc.CancelBooking(context.Background(), booking.ID, "too late")
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestCancelBooking_NotFound(t *testing.T) {
	e := newTestEnv(t)
	svc := e.bookingService()

	err := svc.CancelBooking(context.Background(), uuid.New(), "whatever")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRescheduleBooking(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()

	moved, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDateStr,
		NewTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "14:00", moved.BookingTime)
	assert.Equal(t, testDateStr, moved.BookingDate)
}

func TestRescheduleBooking_OwnIntervalExcluded(t *testing.T) {
	e := newTestEnv(t)
	staffRepo := e.repo.Staff.(*fakeStaffRepo)
	staffRepo.services[testStaffBID] = nil
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()

	// 10:30 overlaps the booking's own current interval; moving there must not
	// conflict with itself.
	moved, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDateStr,
		NewTime: "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30", moved.BookingTime)
}

func TestRescheduleBooking_TargetConflict(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	e.seedBooking(t, testStaffAID, "14:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()

	// The assigned staff member is busy at the target time.
	_, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDateStr,
		NewTime: "14:30",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestRescheduleBooking_CutoffPassed(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	svc := e.bookingService()
	// 3 hours before start, inside the 4 hour reschedule cutoff.
	svc.now = func() time.Time {
		return time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 7, 0, 0, 0, time.Local)
	}

	_, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDate.AddDate(0, 0, 7).Format("2006-01-02"),
		NewTime: "14:00",
	})
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestRescheduleBooking_Terminal(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusNoShow)
	svc := e.bookingService()

	_, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDateStr,
		NewTime: "14:00",
	})
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestRescheduleBooking_CancelledUnderneath(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.bookingService()

	// The cancel commits after the service's terminal check but before the
	// repository takes the row lock; the move must not happen.
	e.bookings.beforeReschedule = func() {
		e.bookings.mu.Lock()
		e.bookings.bookings[booking.ID].Status = entity.BookingStatusCancelled
		e.bookings.mu.Unlock()
	}

	_, err := svc.RescheduleBooking(context.Background(), booking.ID, request.RescheduleBookingRequest{
		NewDate: testDateStr,
		NewTime: "14:00",
	})
	assert.ErrorIs(t, err, ErrNotModifiable)

	stored := e.bookings.bookings[booking.ID]
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, "10:00", stored.BookingTime)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.bookingService()
	ctx := context.Background()

	require.NoError(t, svc.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed, "deposit paid"))
	require.NoError(t, svc.UpdateStatus(ctx, booking.ID, entity.BookingStatusInProgress, "customer arrived"))
	require.NoError(t, svc.UpdateStatus(ctx, booking.ID, entity.BookingStatusCompleted, "done"))

	// Terminal bookings accept no further transitions.
	err := svc.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled, "oops")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	history, err := e.bookings.FindHistoryByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.bookingService()

	err := svc.UpdateStatus(context.Background(), booking.ID, entity.BookingStatusCompleted, "skip ahead")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListedSlotIsBookable(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	e.seedBooking(t, testStaffBID, "11:00", entity.BookingStatusConfirmed)
	availability := e.availabilityService()
	booking := e.bookingService()
	ctx := context.Background()

	slots, err := availability.ListAvailableSlots(ctx, slotsRequest(e))
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// Every offered slot must be accepted by the writer when nothing changes
	// in between.
	for _, slot := range slots[:3] {
		req := createRequest(e, slot.StartTime)
		created, err := booking.CreateBooking(ctx, req)
		require.NoError(t, err, "slot %s was offered but rejected", slot.StartTime)
		require.NoError(t, booking.CancelBooking(ctx, uuid.MustParse(created.ID), "test cleanup"))
	}
}
