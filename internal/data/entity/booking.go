package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

// There is no pending state; bookings are confirmed on creation.
const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

const BookingCreatedByAdmin = "admin"

// DateLayout is the calendar day format used for booking dates.
const DateLayout = "2006-01-02"

type Booking struct {
	Base
	VenueType     VenueType     `db:"venue_type"`
	VenueID       uuid.UUID     `db:"venue_id"`
	CustomerName  string        `db:"customer_name"`
	CustomerEmail string        `db:"customer_email"`
	CustomerPhone string        `db:"customer_phone"`
	Date          time.Time     `db:"date"`
	Time          string        `db:"time"`
	Duration      int           `db:"duration"`
	TotalPrice    float64       `db:"total_price"`
	Guests        int           `db:"guests"`
	Notes         string        `db:"notes"`
	Status        BookingStatus `db:"status"`
	CreatedBy     string        `db:"created_by"`
	FromShareLink bool          `db:"from_share_link"`
}

type BookingFilter struct {
	VenueType *VenueType
	VenueIDs  []uuid.UUID
	Status    BookingStatus
	Limit     int
	Offset    int
}
