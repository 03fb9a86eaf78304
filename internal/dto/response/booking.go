package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type BookingResponse struct {
	ID                string               `json:"id"`
	VenueType         entity.VenueType     `json:"venueType"`
	PoolID            string               `json:"poolId,omitempty"`
	TennisCourtID     string               `json:"tennisCourtId,omitempty"`
	PickleballCourtID string               `json:"pickleballCourtId,omitempty"`
	VenueName         string               `json:"venueName,omitempty"`
	CustomerName      string               `json:"customerName"`
	CustomerEmail     string               `json:"customerEmail"`
	CustomerPhone     string               `json:"customerPhone"`
	Date              string               `json:"date"`
	Time              string               `json:"time"`
	Duration          int                  `json:"duration"`
	TotalPrice        float64              `json:"totalPrice"`
	Guests            int                  `json:"guests"`
	Notes             string               `json:"notes,omitempty"`
	Status            entity.BookingStatus `json:"status"`
	CreatedBy         string               `json:"createdBy,omitempty"`
	FromShareLink     bool                 `json:"fromShareLink"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// BookingToResponse puts the venue id under the reference field of its type.
func BookingToResponse(b *entity.Booking, venueName string) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		VenueType:     b.VenueType,
		VenueName:     venueName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Date.Format(entity.DateLayout),
		Time:          b.Time,
		Duration:      b.Duration,
		TotalPrice:    b.TotalPrice,
		Guests:        b.Guests,
		Notes:         b.Notes,
		Status:        b.Status,
		CreatedBy:     b.CreatedBy,
		FromShareLink: b.FromShareLink,
		CreatedAt:     b.CreatedAt,
	}

	switch b.VenueType {
	case entity.VenuePool:
		resp.PoolID = b.VenueID.String()
	case entity.VenueTennis:
		resp.TennisCourtID = b.VenueID.String()
	case entity.VenuePickleball:
		resp.PickleballCourtID = b.VenueID.String()
	}

	return resp
}
