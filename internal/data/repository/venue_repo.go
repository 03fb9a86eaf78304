package repository

import (
	"context"
	"fmt"
	"strings"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, venueType entity.VenueType, id uuid.UUID) (*entity.Venue, error)
	FindAll(ctx context.Context, venueType entity.VenueType, filter entity.VenueFilter) ([]*entity.Venue, error)
	FindByOwnerEmail(ctx context.Context, email entity.OwnerEmail) ([]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	SetShareLink(ctx context.Context, venueType entity.VenueType, id uuid.UUID, link entity.ShareLink) error
	SetBookingLink(ctx context.Context, venueType entity.VenueType, id uuid.UUID, link entity.BookingLink) error
	Delete(ctx context.Context, venueType entity.VenueType, id uuid.UUID) error
	DeleteByOwnerEmail(ctx context.Context, email entity.OwnerEmail) (map[entity.VenueType]int64, error)
}

const venueColumns = `
	id, type, name, description, location, price, capacity, status,
	owner_name, owner_email, owner_phone, amenities, images, rating,
	share_token, share_expiry, share_active,
	booking_token, booking_expiry, booking_active, booking_price,
	created_at, updated_at`

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

func scanVenue(row pgx.Row) (*entity.Venue, error) {
	var v entity.Venue
	var ownerEmail string
	err := row.Scan(
		&v.ID,
		&v.Type,
		&v.Name,
		&v.Description,
		&v.Location,
		&v.Price,
		&v.Capacity,
		&v.Status,
		&v.Owner.Name,
		&ownerEmail,
		&v.Owner.Phone,
		&v.Amenities,
		&v.Images,
		&v.Rating,
		&v.ShareLink.Token,
		&v.ShareLink.Expiry,
		&v.ShareLink.Active,
		&v.BookingLink.Token,
		&v.BookingLink.Expiry,
		&v.BookingLink.Active,
		&v.BookingLink.Price,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Owner.Email = entity.OwnerEmail(ownerEmail)
	return &v, nil
}

func (r *venueRepository) collect(rows pgx.Rows) ([]*entity.Venue, error) {
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		venues = append(venues, venue)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate venue rows: %w", err)
	}

	return venues, nil
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.Type,
		venue.Name,
		venue.Description,
		venue.Location,
		venue.Price,
		venue.Capacity,
		venue.Status,
		venue.Owner.Name,
		venue.Owner.Email.String(),
		venue.Owner.Phone,
		nonNil(venue.Amenities),
		nonNil(venue.Images),
		venue.Rating,
		venue.ShareLink.Token,
		venue.ShareLink.Expiry,
		venue.ShareLink.Active,
		venue.BookingLink.Token,
		venue.BookingLink.Expiry,
		venue.BookingLink.Active,
		venue.BookingLink.Price,
		venue.CreatedAt,
		venue.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("type", string(venue.Type)),
			zap.String("name", venue.Name),
		)
		return fmt.Errorf("create %s venue %s: %w", venue.Type, venue.Name, translateDBErr(err))
	}

	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, venueType entity.VenueType, id uuid.UUID) (*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1 AND type = $2`

	venue, err := scanVenue(r.db.QueryRow(ctx, query, id, venueType))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return nil, fmt.Errorf("find %s venue by ID %s: %w", venueType, id.String(), err)
	}

	return venue, nil
}

func (r *venueRepository) FindAll(ctx context.Context, venueType entity.VenueType, filter entity.VenueFilter) ([]*entity.Venue, error) {
	// Build query dengan optional filter
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + venueColumns + ` FROM venues WHERE type = $1`)

	args := []interface{}{venueType}
	argCount := 2

	if !filter.OwnerEmail.IsZero() {
		queryBuilder.WriteString(fmt.Sprintf(" AND owner_email = $%d", argCount))
		args = append(args, entity.NewOwnerEmail(filter.OwnerEmail.String()).String())
		argCount++
	}

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argCount))
		args = append(args, filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find venues",
			zap.Error(err),
			zap.String("type", string(venueType)),
			zap.String("owner_email", filter.OwnerEmail.String()),
		)
		return nil, fmt.Errorf("find %s venues: %w", venueType, err)
	}

	return r.collect(rows)
}

func (r *venueRepository) FindByOwnerEmail(ctx context.Context, email entity.OwnerEmail) ([]*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE owner_email = $1 ORDER BY type, created_at`

	rows, err := r.db.Query(ctx, query, entity.NewOwnerEmail(email.String()).String())
	if err != nil {
		r.log.Error("Failed to find venues by owner",
			zap.Error(err),
			zap.String("owner_email", email.String()),
		)
		return nil, fmt.Errorf("find venues by owner %s: %w", email, err)
	}

	return r.collect(rows)
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $3, description = $4, location = $5, price = $6, capacity = $7,
		    status = $8, owner_name = $9, owner_phone = $10, amenities = $11,
		    images = $12, rating = $13, updated_at = $14
		WHERE id = $1 AND type = $2
	`

	result, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.Type,
		venue.Name,
		venue.Description,
		venue.Location,
		venue.Price,
		venue.Capacity,
		venue.Status,
		venue.Owner.Name,
		venue.Owner.Phone,
		nonNil(venue.Amenities),
		nonNil(venue.Images),
		venue.Rating,
		venue.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update venue",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
		)
		return fmt.Errorf("update venue %s: %w", venue.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", venue.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *venueRepository) SetShareLink(ctx context.Context, venueType entity.VenueType, id uuid.UUID, link entity.ShareLink) error {
	query := `
		UPDATE venues
		SET share_token = $3, share_expiry = $4, share_active = $5, updated_at = NOW()
		WHERE id = $1 AND type = $2
	`

	result, err := r.db.Exec(ctx, query, id, venueType, link.Token, link.Expiry, link.Active)
	if err != nil {
		r.log.Error("Failed to set share link",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("set share link for venue %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *venueRepository) SetBookingLink(ctx context.Context, venueType entity.VenueType, id uuid.UUID, link entity.BookingLink) error {
	query := `
		UPDATE venues
		SET booking_token = $3, booking_expiry = $4, booking_active = $5, booking_price = $6, updated_at = NOW()
		WHERE id = $1 AND type = $2
	`

	result, err := r.db.Exec(ctx, query, id, venueType, link.Token, link.Expiry, link.Active, link.Price)
	if err != nil {
		r.log.Error("Failed to set booking link",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("set booking link for venue %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *venueRepository) Delete(ctx context.Context, venueType entity.VenueType, id uuid.UUID) error {
	query := `DELETE FROM venues WHERE id = $1 AND type = $2`

	result, err := r.db.Exec(ctx, query, id, venueType)
	if err != nil {
		r.log.Error("Failed to delete venue",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("delete venue %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Venue deleted", zap.String("venue_id", id.String()), zap.String("type", string(venueType)))
	return nil
}

func (r *venueRepository) DeleteByOwnerEmail(ctx context.Context, email entity.OwnerEmail) (map[entity.VenueType]int64, error) {
	query := `DELETE FROM venues WHERE owner_email = $1 RETURNING type`

	rows, err := r.db.Query(ctx, query, entity.NewOwnerEmail(email.String()).String())
	if err != nil {
		r.log.Error("Failed to delete venues by owner",
			zap.Error(err),
			zap.String("owner_email", email.String()),
		)
		return nil, fmt.Errorf("delete venues by owner %s: %w", email, err)
	}
	defer rows.Close()

	counts := make(map[entity.VenueType]int64)
	for rows.Next() {
		var venueType entity.VenueType
		if err := rows.Scan(&venueType); err != nil {
			return nil, fmt.Errorf("scan deleted venue type: %w", err)
		}
		counts[venueType]++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted venues: %w", err)
	}

	return counts, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
