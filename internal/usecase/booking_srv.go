package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
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

type BookingService interface {
	// CreateBooking validates the requested slot against branch hours and staff
	// qualification, then inserts it under the branch/date lock. A nil StaffID
	// in the request auto-assigns the least loaded qualified staff member.
	CreateBooking(ctx context.Context, req request.CreateBookingRequest) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingDetailResponse, error)
	GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	CancelBooking(ctx context.Context, id uuid.UUID, reason string) error
	RescheduleBooking(ctx context.Context, id uuid.UUID, req request.RescheduleBookingRequest) (*response.BookingResponse, error)

	// UpdateStatus applies a lifecycle transition (confirm, start, complete,
	// no-show) after checking it is allowed from the current status.
	UpdateStatus(ctx context.Context, id uuid.UUID, to entity.BookingStatus, reason string) error
}

type bookingService struct {
	repo *repository.Repository
	cfg  *utils.Config
	log  *zap.Logger
	now  func() time.Time
}

func NewBookingService(repo *repository.Repository, cfg *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		cfg:  cfg,
		log:  log.With(zap.String("service", "booking")),
		now:  time.Now,
	}
}

func (s *bookingService) lockTimeout() time.Duration {
	return time.Duration(s.cfg.Booking.LockTimeoutSeconds) * time.Second
}

// bookingStart combines a booking's date and "HH:MM" time into one instant.
func bookingStart(date time.Time, timeOfDay string) (time.Time, error) {
	tod, err := scheduling.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(tod), 0, 0, time.Local), nil
}

// validateSlot checks that the requested interval falls on an open day, inside
// opening hours, and not before the minimum lead time.
func (s *bookingService) validateSlot(ctx context.Context, branchID uuid.UUID, date time.Time, startTime string, durationMinutes int) error {
	hours, err := s.repo.Branch.FindHours(ctx, branchID)
	if err != nil {
		return err
	}
	open, close, isOpen, err := openHoursFor(hours, date)
	if err != nil {
		return err
	}
	if !isOpen {
		return ErrBranchClosed
	}

	start, err := scheduling.ParseTimeOfDay(startTime)
	if err != nil {
		return fmt.Errorf("parse booking time %q: %w", startTime, err)
	}
	if start.Before(open) || close.Before(start.Add(durationMinutes)) {
		return ErrSlotUnavailable
	}

	startAt, err := bookingStart(date, startTime)
	if err != nil {
		return err
	}
	lead := time.Duration(s.cfg.Booking.MinLeadTimeMinutes) * time.Minute
	if startAt.Before(s.now().Add(lead)) {
		return ErrSlotUnavailable
	}
	return nil
}

// candidateStaff resolves the staff set the booking may be assigned to. With an
// explicit staff id the set is that one member, after a qualification check.
func (s *bookingService) candidateStaff(ctx context.Context, branchID, serviceID uuid.UUID, staffID *string) ([]uuid.UUID, error) {
	qualified, err := s.repo.Staff.FindQualified(ctx, branchID, serviceID)
	if err != nil {
		return nil, err
	}
	if staffID != nil {
		requested, err := uuid.Parse(*staffID)
		if err != nil {
			return nil, ErrStaffNotFound
		}
		for _, m := range qualified {
			if m.ID == requested {
				return []uuid.UUID{requested}, nil
			}
		}
		return nil, ErrStaffNotEligible
	}

	ids := make([]uuid.UUID, 0, len(qualified))
	for _, m := range qualified {
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return nil, ErrSlotUnavailable
	}
	return ids, nil
}

// withRetry runs fn, retrying transient storage failures (lock timeouts,
// serialization failures) with jittered backoff.
func (s *bookingService) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := s.cfg.Booking.CreateRetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !repository.IsRetryable(err) {
			return err
		}
		s.log.Warn("Retrying booking write after transient storage error",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < attempts {
			backoff := time.Duration(attempt*50+rand.Intn(50)) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func (s *bookingService) CreateBooking(ctx context.Context, req request.CreateBookingRequest) (*response.BookingResponse, error) {
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

	if err := s.validateSlot(ctx, branchID, date, req.Time, svc.DurationMinutes); err != nil {
		return nil, err
	}

	candidates, err := s.candidateStaff(ctx, branchID, serviceID, req.StaffID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:          utils.GenerateBookingCode(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		BranchID:      branchID,
		ServiceID:     serviceID,
		BookingDate:   date,
		BookingTime:   req.Time,
		// Duration and price are copied from the service so later catalog
		// edits leave existing bookings untouched.
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Status:          entity.BookingStatusPending,
		Notes:           req.Notes,
	}
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		booking.UserID = &userID
	}

	var created *entity.Booking
	err = s.withRetry(ctx, "create", func() error {
		var err error
		created, err = s.repo.Booking.CreateIfFree(ctx, booking, candidates, s.lockTimeout())
		return err
	})
	if errors.Is(err, repository.ErrSlotConflict) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("code", created.Code),
		zap.String("branch_id", branchID.String()),
		zap.String("staff_id", created.StaffID.String()),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)
	resp := response.BookingToResponse(created)
	return &resp, nil
}

func (s *bookingService) detail(ctx context.Context, booking *entity.Booking) (*response.BookingDetailResponse, error) {
	history, err := s.repo.Booking.FindHistoryByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	detail := &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
		History:         make([]response.BookingHistoryResponse, 0, len(history)),
	}
	for _, h := range history {
		detail.History = append(detail.History, response.HistoryToResponse(h))
	}
	if payment != nil {
		p := response.PaymentToResponse(payment)
		detail.Payment = &p
	}
	return detail, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return s.detail(ctx, booking)
}

func (s *bookingService) GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return s.detail(ctx, booking)
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

// cutoffPassed reports whether now is within cutoffHours of the booking start.
func (s *bookingService) cutoffPassed(booking *entity.Booking, cutoffHours int) (bool, error) {
	startAt, err := bookingStart(booking.BookingDate, booking.BookingTime)
	if err != nil {
		return false, err
	}
	cutoff := startAt.Add(-time.Duration(cutoffHours) * time.Hour)
	return s.now().After(cutoff), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID, reason string) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if entity.IsTerminalStatus(booking.Status) {
		return ErrAlreadyTerminal
	}

	passed, err := s.cutoffPassed(booking, s.cfg.Booking.CancelCutoffHours)
	if err != nil {
		return err
	}
	if passed {
		return ErrNotModifiable
	}

	err = s.repo.Booking.UpdateStatusWithHistory(ctx, id, booking.Status, entity.BookingStatusCancelled, reason)
	if errors.Is(err, repository.ErrStatusChanged) {
		// A concurrent transition won the race. Reload to report accurately.
		return s.reportStatusRace(ctx, id)
	}
	if err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", id.String()),
		zap.String("reason", reason),
	)
	return nil
}

func (s *bookingService) reportStatusRace(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if entity.IsTerminalStatus(booking.Status) {
		return ErrAlreadyTerminal
	}
	return ErrNotModifiable
}

func (s *bookingService) RescheduleBooking(ctx context.Context, id uuid.UUID, req request.RescheduleBookingRequest) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	// A finished booking cannot be moved; unlike cancel this is plain
	// not-modifiable, there is no separate terminal outcome for reschedule.
	if entity.IsTerminalStatus(booking.Status) {
		return nil, ErrNotModifiable
	}

	passed, err := s.cutoffPassed(booking, s.cfg.Booking.RescheduleCutoffHours)
	if err != nil {
		return nil, err
	}
	if passed {
		return nil, ErrNotModifiable
	}

	newDate, err := time.ParseInLocation("2006-01-02", req.NewDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse new date %q: %w", req.NewDate, err)
	}
	if err := s.validateSlot(ctx, booking.BranchID, newDate, req.NewTime, booking.DurationMinutes); err != nil {
		return nil, err
	}

	var moved *entity.Booking
	err = s.withRetry(ctx, "reschedule", func() error {
		var err error
		moved, err = s.repo.Booking.RescheduleIfFree(ctx, id, newDate, req.NewTime, s.lockTimeout())
		return err
	})
	if errors.Is(err, repository.ErrSlotConflict) {
		return nil, ErrSlotUnavailable
	}
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, ErrNotModifiable
	}
	if err != nil {
		return nil, err
	}
	if moved == nil {
		return nil, ErrBookingNotFound
	}

	s.log.Info("Booking rescheduled",
		zap.String("booking_id", id.String()),
		zap.String("new_date", req.NewDate),
		zap.String("new_time", req.NewTime),
	)
	resp := response.BookingToResponse(moved)
	return &resp, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id uuid.UUID, to entity.BookingStatus, reason string) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if !entity.CanTransition(booking.Status, to) {
		if entity.IsTerminalStatus(booking.Status) {
			return ErrAlreadyTerminal
		}
		return ErrInvalidTransition
	}

	err = s.repo.Booking.UpdateStatusWithHistory(ctx, id, booking.Status, to, reason)
	if errors.Is(err, repository.ErrStatusChanged) {
		return s.reportStatusRace(ctx, id)
	}
	if err != nil {
		return err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", id.String()),
		zap.String("status", string(to)),
	)
	return nil
}
