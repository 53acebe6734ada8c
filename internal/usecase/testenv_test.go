package usecase

import (
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed ids keep the staff order deterministic: staff A sorts before staff B.
var (
	testStaffAID = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	testStaffBID = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

// testDate is a day the test branch is open; testNow is well before it so lead
// time rules never interfere unless a test moves the clock.
var (
	testDate    = time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	testDateStr = "2026-06-15"
	testNow     = time.Date(2026, 6, 1, 8, 0, 0, 0, time.Local)
)

type testEnv struct {
	repo    *repository.Repository
	cfg     *utils.Config
	branch  *entity.Branch
	service *entity.Service
	staffA  *entity.Staff
	staffB  *entity.Staff

	bookings *fakeBookingRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	branchRepo := newFakeBranchRepo()
	serviceRepo := newFakeServiceRepo()
	staffRepo := newFakeStaffRepo()
	bookingRepo := newFakeBookingRepo()
	paymentRepo := newFakePaymentRepo()

	branch := &entity.Branch{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Downtown",
		Address:  "1 Main St",
		Phone:    "555-0100",
		IsActive: true,
	}
	branchRepo.branches[branch.ID] = branch
	branchRepo.hours[branch.ID] = []*entity.BranchHour{
		{
			ID:        uuid.New(),
			BranchID:  branch.ID,
			Weekday:   testDate.Weekday(),
			OpenTime:  "09:00",
			CloseTime: "18:00",
		},
	}

	service := &entity.Service{
		Base:            entity.Base{ID: uuid.New()},
		Name:            "Deep Cleansing Facial",
		DurationMinutes: 60,
		Price:           350000,
		IsActive:        true,
	}
	serviceRepo.services[service.ID] = service

	staffA := &entity.Staff{
		Base:     entity.Base{ID: testStaffAID},
		BranchID: branch.ID,
		Name:     "Anh",
		IsActive: true,
	}
	staffB := &entity.Staff{
		Base:     entity.Base{ID: testStaffBID},
		BranchID: branch.ID,
		Name:     "Binh",
		IsActive: true,
	}
	staffRepo.staff[staffA.ID] = staffA
	staffRepo.staff[staffB.ID] = staffB
	staffRepo.services[staffA.ID] = []uuid.UUID{service.ID}
	staffRepo.services[staffB.ID] = []uuid.UUID{service.ID}

	cfg := &utils.Config{
		Booking: utils.BookingConfig{
			GranularityMinutes:    30,
			MinLeadTimeMinutes:    0,
			RescheduleCutoffHours: 4,
			CancelCutoffHours:     2,
			LockTimeoutSeconds:    1,
			CreateRetryAttempts:   3,
		},
	}

	return &testEnv{
		repo: &repository.Repository{
			Branch:  branchRepo,
			Service: serviceRepo,
			Staff:   staffRepo,
			Booking: bookingRepo,
			Payment: paymentRepo,
		},
		cfg:      cfg,
		branch:   branch,
		service:  service,
		staffA:   staffA,
		staffB:   staffB,
		bookings: bookingRepo,
	}
}

func (e *testEnv) availabilityService() *availabilityService {
	svc := NewAvailabilityService(e.repo, e.cfg, zap.NewNop()).(*availabilityService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func (e *testEnv) bookingService() *bookingService {
	svc := NewBookingService(e.repo, e.cfg, zap.NewNop()).(*bookingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

// seedBooking inserts a blocking booking directly into the fake store.
func (e *testEnv) seedBooking(t *testing.T, staffID uuid.UUID, timeOfDay string, status entity.BookingStatus) *entity.Booking {
	t.Helper()

	booking := &entity.Booking{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Code:            utils.GenerateBookingCode(),
		CustomerName:    "Walk In",
		CustomerPhone:   "555-0199",
		BranchID:        e.branch.ID,
		ServiceID:       e.service.ID,
		StaffID:         staffID,
		BookingDate:     testDate,
		BookingTime:     timeOfDay,
		DurationMinutes: e.service.DurationMinutes,
		Price:           e.service.Price,
		Status:          status,
	}
	e.bookings.bookings[booking.ID] = booking
	return booking
}
