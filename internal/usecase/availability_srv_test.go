package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotsRequest(e *testEnv) request.ListSlotsRequest {
	return request.ListSlotsRequest{
		BranchID:  e.branch.ID.String(),
		ServiceID: e.service.ID.String(),
		Date:      testDateStr,
	}
}

func findSlot(slots []response.SlotResponse, startTime string) *response.SlotResponse {
	for i := range slots {
		if slots[i].StartTime == startTime {
			return &slots[i]
		}
	}
	return nil
}

func TestListAvailableSlots_OpenDay(t *testing.T) {
	e := newTestEnv(t)
	svc := e.availabilityService()

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)

	// 09:00 through 17:00 on a 30 minute grid, both staff free everywhere.
	require.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "17:00", slots[len(slots)-1].StartTime)
	for _, slot := range slots {
		assert.Equal(t, 60, slot.DurationMinutes)
		assert.Equal(t, []string{testStaffAID.String(), testStaffBID.String()}, slot.EligibleStaff)
	}
}

func TestListAvailableSlots_BusyStaffExcluded(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	svc := e.availabilityService()

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)

	// 09:30, 10:00 and 10:30 collide with staff A's 10:00-11:00 booking, so
	// only staff B remains there. Slots outside the collision keep both.
	for _, startTime := range []string{"09:30", "10:00", "10:30"} {
		slot := findSlot(slots, startTime)
		require.NotNil(t, slot, "slot %s missing", startTime)
		assert.Equal(t, []string{testStaffBID.String()}, slot.EligibleStaff, "slot %s", startTime)
	}
	slot := findSlot(slots, "09:00")
	require.NotNil(t, slot)
	assert.Len(t, slot.EligibleStaff, 2)
}

func TestListAvailableSlots_SlotDropsWhenAllStaffBusy(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusConfirmed)
	e.seedBooking(t, testStaffBID, "10:00", entity.BookingStatusPending)
	svc := e.availabilityService()

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)

	assert.Nil(t, findSlot(slots, "09:30"))
	assert.Nil(t, findSlot(slots, "10:00"))
	assert.Nil(t, findSlot(slots, "10:30"))
	assert.NotNil(t, findSlot(slots, "09:00"))
	assert.NotNil(t, findSlot(slots, "11:00"))
}

func TestListAvailableSlots_CancelledBookingFreesSlot(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusCancelled)
	e.seedBooking(t, testStaffBID, "10:00", entity.BookingStatusCancelled)
	svc := e.availabilityService()

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)

	slot := findSlot(slots, "10:00")
	require.NotNil(t, slot)
	assert.Len(t, slot.EligibleStaff, 2)
}

func TestListAvailableSlots_ClosedDay(t *testing.T) {
	e := newTestEnv(t)
	svc := e.availabilityService()

	req := slotsRequest(e)
	closed := testDate.AddDate(0, 0, 1)
	req.Date = closed.Format("2006-01-02")

	slots, err := svc.ListAvailableSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_PastDate(t *testing.T) {
	e := newTestEnv(t)
	svc := e.availabilityService()
	svc.now = func() time.Time { return testDate.AddDate(0, 0, 7) }

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_LeadTimeOnCurrentDay(t *testing.T) {
	e := newTestEnv(t)
	e.cfg.Booking.MinLeadTimeMinutes = 60
	svc := e.availabilityService()
	// It is 11:45 on the booking day itself.
	svc.now = func() time.Time {
		return time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 11, 45, 0, 0, time.Local)
	}

	slots, err := svc.ListAvailableSlots(context.Background(), slotsRequest(e))
	require.NoError(t, err)

	// Earliest offered start is 12:45 rounded up to the next grid point, 13:00.
	require.NotEmpty(t, slots)
	assert.Equal(t, "13:00", slots[0].StartTime)
}

func TestListAvailableSlots_StaffFilter(t *testing.T) {
	e := newTestEnv(t)
	svc := e.availabilityService()

	req := slotsRequest(e)
	staffB := testStaffBID.String()
	req.StaffID = &staffB

	slots, err := svc.ListAvailableSlots(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, slot := range slots {
		assert.Equal(t, []string{staffB}, slot.EligibleStaff)
	}
}

func TestListAvailableSlots_UnqualifiedStaff(t *testing.T) {
	e := newTestEnv(t)
	// Staff B loses the qualification.
	staffRepo := e.repo.Staff.(*fakeStaffRepo)
	staffRepo.services[testStaffBID] = nil
	svc := e.availabilityService()

	req := slotsRequest(e)
	staffB := testStaffBID.String()
	req.StaffID = &staffB

	_, err := svc.ListAvailableSlots(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotEligible)
}

func TestListAvailableSlots_UnknownBranch(t *testing.T) {
	e := newTestEnv(t)
	svc := e.availabilityService()

	req := slotsRequest(e)
	req.BranchID = "00000000-0000-0000-0000-0000000000ff"

	_, err := svc.ListAvailableSlots(context.Background(), req)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}
