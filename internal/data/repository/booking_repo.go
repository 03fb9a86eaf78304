package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error)
	CountAll(ctx context.Context, filter entity.BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error

	// Business queries
	FindBookedTimes(ctx context.Context, venueID uuid.UUID, date time.Time) ([]string, error)
	StatsByVenueIDs(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]entity.VenueStats, error)
	DeleteByVenueIDs(ctx context.Context, venueIDs []uuid.UUID) (int64, error)
}

const bookingColumns = `
	id, venue_type, venue_id, customer_name, customer_email, customer_phone,
	date, time, duration, total_price, guests, notes, status, created_by,
	from_share_link, created_at, updated_at`

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

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.VenueType,
		&b.VenueID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Date,
		&b.Time,
		&b.Duration,
		&b.TotalPrice,
		&b.Guests,
		&b.Notes,
		&b.Status,
		&b.CreatedBy,
		&b.FromShareLink,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.VenueType,
		booking.VenueID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.Date,
		booking.Time,
		booking.Duration,
		booking.TotalPrice,
		booking.Guests,
		booking.Notes,
		booking.Status,
		booking.CreatedBy,
		booking.FromShareLink,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		err = translateDBErr(err)
		if errors.Is(err, ErrConflict) {
			r.log.Warn("Booking slot already taken",
				zap.String("venue_id", booking.VenueID.String()),
				zap.String("time", booking.Time),
			)
		} else {
			r.log.Error("Failed to create booking",
				zap.Error(err),
				zap.String("venue_id", booking.VenueID.String()),
			)
		}
		return fmt.Errorf("create booking for venue %s: %w", booking.VenueID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
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

// bookingWhere builds the shared WHERE for FindAll and CountAll.
func bookingWhere(filter entity.BookingFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.VenueType != nil {
		args = append(args, *filter.VenueType)
		conds = append(conds, fmt.Sprintf("venue_type = $%d", len(args)))
	}

	if filter.VenueIDs != nil {
		args = append(args, filter.VenueIDs)
		conds = append(conds, fmt.Sprintf("venue_id = ANY($%d)", len(args)))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	where, args := bookingWhere(filter)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + where + ` ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
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

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	where, args := bookingWhere(filter)
	query := `SELECT COUNT(*) FROM bookings` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), translateDBErr(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) FindBookedTimes(ctx context.Context, venueID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT time
		FROM bookings
		WHERE venue_id = $1 AND date = $2 AND status = $3
	`

	rows, err := r.db.Query(ctx, query, venueID, date, entity.BookingStatusConfirmed)
	if err != nil {
		r.log.Error("Failed to find booked times",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find booked times for venue %s: %w", venueID.String(), err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked times: %w", err)
	}

	return times, nil
}

func (r *bookingRepository) StatsByVenueIDs(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]entity.VenueStats, error) {
	stats := make(map[uuid.UUID]entity.VenueStats, len(venueIDs))
	if len(venueIDs) == 0 {
		return stats, nil
	}

	query := `
		SELECT venue_id, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE venue_id = ANY($1) AND status = $2
		GROUP BY venue_id
	`

	rows, err := r.db.Query(ctx, query, venueIDs, entity.BookingStatusConfirmed)
	if err != nil {
		r.log.Error("Failed to aggregate booking stats", zap.Error(err), zap.Int("venues", len(venueIDs)))
		return nil, fmt.Errorf("aggregate booking stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var s entity.VenueStats
		if err := rows.Scan(&id, &s.TotalBookings, &s.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan booking stats: %w", err)
		}
		stats[id] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking stats: %w", err)
	}

	return stats, nil
}

func (r *bookingRepository) DeleteByVenueIDs(ctx context.Context, venueIDs []uuid.UUID) (int64, error) {
	if len(venueIDs) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE venue_id = ANY($1)`, venueIDs)
	if err != nil {
		r.log.Error("Failed to delete bookings by venue", zap.Error(err), zap.Int("venues", len(venueIDs)))
		return 0, fmt.Errorf("delete bookings for %d venues: %w", len(venueIDs), err)
	}

	r.log.Info("Bookings deleted", zap.Int64("count", result.RowsAffected()))
	return result.RowsAffected(), nil
}
