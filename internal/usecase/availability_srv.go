package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/scheduling"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// ListAvailableSlots returns the bookable start times for a branch, service
	// and date, in ascending order. A closed day yields an empty list, not an
	// error.
	ListAvailableSlots(ctx context.Context, req request.ListSlotsRequest) ([]response.SlotResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	cfg  *utils.Config
	log  *zap.Logger
	now  func() time.Time
}

func NewAvailabilityService(repo *repository.Repository, cfg *utils.Config, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		cfg:  cfg,
		log:  log.With(zap.String("service", "availability")),
		now:  time.Now,
	}
}

// openHoursFor resolves the branch's opening interval on the given date.
// Returns ok=false when the branch is closed that weekday.
func openHoursFor(hours []*entity.BranchHour, date time.Time) (scheduling.TimeOfDay, scheduling.TimeOfDay, bool, error) {
	for _, h := range hours {
		if h.Weekday != date.Weekday() {
			continue
		}
		open, err := scheduling.ParseTimeOfDay(h.OpenTime)
		if err != nil {
			return 0, 0, false, fmt.Errorf("parse open time %q: %w", h.OpenTime, err)
		}
		close, err := scheduling.ParseTimeOfDay(h.CloseTime)
		if err != nil {
			return 0, 0, false, fmt.Errorf("parse close time %q: %w", h.CloseTime, err)
		}
		return open, close, true, nil
	}
	return 0, 0, false, nil
}

// busyIntervalsByStaff groups the blocking bookings into per-staff busy
// intervals. Rows with an unparseable time are skipped rather than failing the
// whole listing.
func busyIntervalsByStaff(blocking []*entity.Booking) map[uuid.UUID][]scheduling.Interval {
	busy := make(map[uuid.UUID][]scheduling.Interval)
	for _, b := range blocking {
		start, err := scheduling.ParseTimeOfDay(b.BookingTime)
		if err != nil {
			continue
		}
		busy[b.StaffID] = append(busy[b.StaffID], scheduling.Interval{
			Start:           start,
			DurationMinutes: b.DurationMinutes,
		})
	}
	return busy
}

func (s *availabilityService) ListAvailableSlots(ctx context.Context, req request.ListSlotsRequest) ([]response.SlotResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, ErrServiceNotFound
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", req.Date, err)
	}

	granularity := req.Granularity
	if granularity == 0 {
		granularity = s.cfg.Booking.GranularityMinutes
	}

	branch, err := s.repo.Branch.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || !branch.IsActive {
		return nil, ErrBranchNotFound
	}

	svc, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}

	hours, err := s.repo.Branch.FindHours(ctx, branchID)
	if err != nil {
		return nil, err
	}
	open, close, isOpen, err := openHoursFor(hours, date)
	if err != nil {
		return nil, err
	}
	if !isOpen {
		return []response.SlotResponse{}, nil
	}

	staff, err := s.repo.Staff.FindQualified(ctx, branchID, serviceID)
	if err != nil {
		return nil, err
	}
	if req.StaffID != nil {
		requested, err := uuid.Parse(*req.StaffID)
		if err != nil {
			return nil, ErrStaffNotFound
		}
		var match *entity.Staff
		for _, m := range staff {
			if m.ID == requested {
				match = m
				break
			}
		}
		if match == nil {
			return nil, ErrStaffNotEligible
		}
		staff = []*entity.Staff{match}
	}
	if len(staff) == 0 {
		return []response.SlotResponse{}, nil
	}

	blocking, err := s.repo.Booking.FindBlockingByBranchDate(ctx, branchID, date)
	if err != nil {
		return nil, err
	}
	busy := busyIntervalsByStaff(blocking)

	slots, err := scheduling.GenerateSlots(open, close, granularity, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return []response.SlotResponse{}, nil
	}
	// On the current day, slots starting before now plus the minimum lead time
	// are no longer offered.
	leadCutoff := scheduling.TimeOfDay(-1)
	if date.Equal(today) {
		leadCutoff = scheduling.TimeOfDay(now.Hour()*60 + now.Minute() + s.cfg.Booking.MinLeadTimeMinutes)
	}

	result := make([]response.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		if slot.Before(leadCutoff) {
			continue
		}
		candidate := scheduling.Interval{Start: slot, DurationMinutes: svc.DurationMinutes}

		var eligible []string
		for _, m := range staff {
			free, err := scheduling.IsSlotFree(candidate, busy[m.ID])
			if err != nil {
				return nil, err
			}
			if free {
				eligible = append(eligible, m.ID.String())
			}
		}
		if len(eligible) > 0 {
			result = append(result, response.SlotResponse{
				StartTime:       slot.String(),
				DurationMinutes: svc.DurationMinutes,
				EligibleStaff:   eligible,
			})
		}
	}

	s.log.Debug("Listed available slots",
		zap.String("branch_id", branchID.String()),
		zap.String("date", req.Date),
		zap.Int("slots", len(result)),
	)
	return result, nil
}
