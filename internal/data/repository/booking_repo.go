package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/scheduling"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateIfFree re-checks slot conflicts and inserts the booking atomically.
	// candidateStaffIDs is the set of staff allowed to take the booking; the
	// least-loaded free candidate is assigned. Returns ErrSlotConflict when no
	// candidate is free for the requested interval.
	CreateIfFree(ctx context.Context, booking *entity.Booking, candidateStaffIDs []uuid.UUID, lockTimeout time.Duration) (*entity.Booking, error)

	// RescheduleIfFree moves a booking to a new date/time under the same
	// atomicity guarantee, excluding the booking's own interval from the
	// conflict set.
	RescheduleIfFree(ctx context.Context, bookingID uuid.UUID, newDate time.Time, newTime string, lockTimeout time.Duration) (*entity.Booking, error)

	// UpdateStatusWithHistory transitions status from -> to and appends a
	// history row in one transaction. Returns ErrStatusChanged when the
	// booking is no longer in the expected status.
	UpdateStatusWithHistory(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCode(ctx context.Context, code string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindBlockingByBranchDate returns all bookings occupying capacity at the
	// branch on the given date (status pending/confirmed/in_progress).
	FindBlockingByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]*entity.Booking, error)

	FindHistoryByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingHistory, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, code, user_id, customer_name, customer_phone, branch_id, service_id, staff_id,
		booking_date, booking_time, duration_minutes, price, status, notes, created_at, updated_at`

// queryExec is satisfied by both the pool wrapper and pgx.Tx, so the same
// scan helpers serve transactional and plain reads.
type queryExec interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Code,
		&booking.UserID,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.BranchID,
		&booking.ServiceID,
		&booking.StaffID,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.DurationMinutes,
		&booking.Price,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// lockKey derives the advisory-lock key for a branch/date pair. All writers
// targeting the same branch and day serialize on this key.
func lockKey(branchID uuid.UUID, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(branchID.String()))
	h.Write([]byte(date.Format("2006-01-02")))
	return int64(h.Sum64())
}

// lockBranchDate takes the advisory lock for the branch/date inside the
// transaction. SET LOCAL lock_timeout bounds the wait so a contended slot
// cannot pin request handlers indefinitely.
func (r *bookingRepository) lockBranchDate(ctx context.Context, tx pgx.Tx, branchID uuid.UUID, date time.Time, lockTimeout time.Duration) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey(branchID, date)); err != nil {
		return fmt.Errorf("acquire branch/date lock: %w", err)
	}
	return nil
}

// blockingForBranchDate loads the bookings occupying capacity at the branch on
// the given date. excludeID removes a booking's own interval from the set,
// used when rescheduling.
func blockingForBranchDate(ctx context.Context, q queryExec, branchID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE branch_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed', 'in_progress')
		  AND ($3::uuid IS NULL OR id <> $3)
		ORDER BY booking_time, staff_id
	`

	rows, err := q.Query(ctx, query, branchID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("find blocking bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// pickStaff selects the least-loaded free candidate for the interval, ties
// broken by ascending staff id. Returns uuid.Nil when every candidate is busy.
func pickStaff(candidates []uuid.UUID, candidate scheduling.Interval, blocking []*entity.Booking) uuid.UUID {
	busyByStaff := make(map[uuid.UUID][]scheduling.Interval)
	loadByStaff := make(map[uuid.UUID]int)
	for _, b := range blocking {
		start, err := scheduling.ParseTimeOfDay(b.BookingTime)
		if err != nil {
			continue
		}
		busyByStaff[b.StaffID] = append(busyByStaff[b.StaffID], scheduling.Interval{
			Start:           start,
			DurationMinutes: b.DurationMinutes,
		})
		loadByStaff[b.StaffID]++
	}

	sorted := make([]uuid.UUID, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := loadByStaff[sorted[i]], loadByStaff[sorted[j]]
		if li != lj {
			return li < lj
		}
		return sorted[i].String() < sorted[j].String()
	})

	for _, staffID := range sorted {
		free, err := scheduling.IsSlotFree(candidate, busyByStaff[staffID])
		if err == nil && free {
			return staffID
		}
	}

	return uuid.Nil
}

func (r *bookingRepository) CreateIfFree(ctx context.Context, booking *entity.Booking, candidateStaffIDs []uuid.UUID, lockTimeout time.Duration) (*entity.Booking, error) {
	start, err := scheduling.ParseTimeOfDay(booking.BookingTime)
	if err != nil {
		return nil, fmt.Errorf("parse booking time: %w", err)
	}
	candidate := scheduling.Interval{Start: start, DurationMinutes: booking.DurationMinutes}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.lockBranchDate(ctx, tx, booking.BranchID, booking.BookingDate, lockTimeout); err != nil {
		return nil, err
	}

	blocking, err := blockingForBranchDate(ctx, tx, booking.BranchID, booking.BookingDate, nil)
	if err != nil {
		r.log.Error("Failed to load blocking bookings",
			zap.Error(err),
			zap.String("branch_id", booking.BranchID.String()),
		)
		return nil, err
	}

	staffID := pickStaff(candidateStaffIDs, candidate, blocking)
	if staffID == uuid.Nil {
		return nil, ErrSlotConflict
	}
	booking.StaffID = staffID

	insert := `
		INSERT INTO bookings (id, code, user_id, customer_name, customer_phone, branch_id, service_id, staff_id,
			booking_date, booking_time, duration_minutes, price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.Exec(ctx, insert,
		booking.ID,
		booking.Code,
		booking.UserID,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.BranchID,
		booking.ServiceID,
		booking.StaffID,
		booking.BookingDate,
		booking.BookingTime,
		booking.DurationMinutes,
		booking.Price,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("code", booking.Code),
		)
		return nil, fmt.Errorf("insert booking %s: %w", booking.Code, err)
	}

	if err := appendHistory(ctx, tx, booking.ID, "", booking.Status, "booking created"); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create booking: %w", err)
	}

	return booking, nil
}

func (r *bookingRepository) RescheduleIfFree(ctx context.Context, bookingID uuid.UUID, newDate time.Time, newTime string, lockTimeout time.Duration) (*entity.Booking, error) {
	start, err := scheduling.ParseTimeOfDay(newTime)
	if err != nil {
		return nil, fmt.Errorf("parse new booking time: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reschedule tx: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s for reschedule: %w", bookingID.String(), err)
	}
	// A cancel or completion can commit between the caller's read and our row
	// lock; the locked status is the one that counts.
	if !entity.IsBlockingStatus(booking.Status) {
		return nil, ErrStatusChanged
	}

	if err := r.lockBranchDate(ctx, tx, booking.BranchID, newDate, lockTimeout); err != nil {
		return nil, err
	}

	blocking, err := blockingForBranchDate(ctx, tx, booking.BranchID, newDate, &bookingID)
	if err != nil {
		return nil, err
	}

	candidate := scheduling.Interval{Start: start, DurationMinutes: booking.DurationMinutes}
	if pickStaff([]uuid.UUID{booking.StaffID}, candidate, blocking) == uuid.Nil {
		return nil, ErrSlotConflict
	}

	oldDate, oldTime := booking.BookingDate, booking.BookingTime
	now := time.Now()
	_, err = tx.Exec(ctx,
		`UPDATE bookings SET booking_date = $2, booking_time = $3, updated_at = $4 WHERE id = $1`,
		bookingID, newDate, newTime, now)
	if err != nil {
		r.log.Error("Failed to reschedule booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("reschedule booking %s: %w", bookingID.String(), err)
	}

	reason := fmt.Sprintf("rescheduled from %s %s to %s %s",
		oldDate.Format("2006-01-02"), oldTime, newDate.Format("2006-01-02"), newTime)
	if err := appendHistory(ctx, tx, bookingID, booking.Status, booking.Status, reason); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reschedule: %w", err)
	}

	booking.BookingDate = newDate
	booking.BookingTime = newTime
	booking.UpdatedAt = now
	return booking, nil
}

func (r *bookingRepository) UpdateStatusWithHistory(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The status guard in the WHERE clause makes the read-then-write atomic:
	// a concurrent transition loses the race and surfaces as ErrStatusChanged.
	result, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		bookingID, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(to), err)
	}
	if result.RowsAffected() == 0 {
		return ErrStatusChanged
	}

	if err := appendHistory(ctx, tx, bookingID, from, to, reason); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// appendHistory writes one immutable transition record. History rows are
// never updated or deleted.
func appendHistory(ctx context.Context, q queryExec, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO booking_history (id, booking_id, old_status, new_status, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), bookingID, string(from), string(to), reason, time.Now())
	if err != nil {
		return fmt.Errorf("append booking history for %s: %w", bookingID.String(), err)
	}
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find booking by code %s: %w", code, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY booking_date DESC, booking_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *bookingRepository) FindBlockingByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	bookings, err := blockingForBranchDate(ctx, r.db, branchID, date, nil)
	if err != nil {
		r.log.Error("Failed to find blocking bookings",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
			zap.String("date", date.Format("2006-01-02")),
		)
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindHistoryByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingHistory, error) {
	query := `
		SELECT id, booking_id, old_status, new_status, reason, created_at
		FROM booking_history
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking history",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find history for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var history []*entity.BookingHistory
	for rows.Next() {
		var h entity.BookingHistory
		if err := rows.Scan(&h.ID, &h.BookingID, &h.OldStatus, &h.NewStatus, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, &h)
	}

	return history, rows.Err()
}
