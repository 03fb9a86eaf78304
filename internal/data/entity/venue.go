package entity

import (
	"fmt"
	"time"
)

type VenueType string

const (
	VenuePool       VenueType = "pool"
	VenueTennis     VenueType = "tennis"
	VenuePickleball VenueType = "pickleball"
)

var VenueTypes = []VenueType{VenuePool, VenueTennis, VenuePickleball}

// Slug is the URL segment used under /api.
func (t VenueType) Slug() string {
	switch t {
	case VenuePool:
		return "pools"
	case VenueTennis:
		return "tennis"
	case VenuePickleball:
		return "pickleball"
	}
	return string(t)
}

// RefField is the booking JSON field that references a venue of this type.
func (t VenueType) RefField() string {
	switch t {
	case VenuePool:
		return "poolId"
	case VenueTennis:
		return "tennisCourtId"
	case VenuePickleball:
		return "pickleballCourtId"
	}
	return "venueId"
}

// Label is the human readable name used in messages and receipts.
func (t VenueType) Label() string {
	switch t {
	case VenuePool:
		return "Pool"
	case VenueTennis:
		return "Tennis court"
	case VenuePickleball:
		return "Pickleball court"
	}
	return "Venue"
}

func (t VenueType) Valid() bool {
	switch t {
	case VenuePool, VenueTennis, VenuePickleball:
		return true
	}
	return false
}

type VenueStatus string

const (
	VenueStatusActive      VenueStatus = "Active"
	VenueStatusInactive    VenueStatus = "Inactive"
	VenueStatusMaintenance VenueStatus = "Maintenance"
)

type Owner struct {
	Name  string     `db:"owner_name"`
	Email OwnerEmail `db:"owner_email"`
	Phone string     `db:"owner_phone"`
}

// ShareLink grants view and book access until Expiry.
type ShareLink struct {
	Token  string     `db:"share_token"`
	Expiry *time.Time `db:"share_expiry"`
	Active bool       `db:"share_active"`
}

// BookingLink grants direct booking access until Expiry, optionally at Price.
type BookingLink struct {
	Token  string     `db:"booking_token"`
	Expiry *time.Time `db:"booking_expiry"`
	Active bool       `db:"booking_active"`
	Price  *float64   `db:"booking_price"`
}

type Venue struct {
	Base
	Type        VenueType   `db:"type"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	Location    string      `db:"location"`
	Price       float64     `db:"price"`
	Capacity    int         `db:"capacity"`
	Status      VenueStatus `db:"status"`
	Owner       Owner
	Amenities   []string `db:"amenities"`
	Images      []string `db:"images"`
	Rating      float64  `db:"rating"`
	ShareLink   ShareLink
	BookingLink BookingLink
}

type VenueFilter struct {
	OwnerEmail OwnerEmail
	Status     VenueStatus
}

// VenueStats are aggregated from bookings at read time.
type VenueStats struct {
	TotalBookings int64
	TotalRevenue  float64
}

// HourlySlots returns one label per hour in [open, close), e.g. "09:00 AM".
func HourlySlots(open, close int) []string {
	if open < 0 {
		open = 0
	}
	if close > 24 {
		close = 24
	}

	var slots []string
	for h := open; h < close; h++ {
		slots = append(slots, SlotLabel(h))
	}
	return slots
}

func SlotLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:00 %s", h12, suffix)
}
