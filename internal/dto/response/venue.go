package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type OwnerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShareLinkResponse struct {
	Token  string     `json:"token,omitempty"`
	Expiry *time.Time `json:"expiry,omitempty"`
	Active bool       `json:"active"`
	URL    string     `json:"url,omitempty"`
}

type BookingLinkResponse struct {
	Token  string     `json:"token,omitempty"`
	Expiry *time.Time `json:"expiry,omitempty"`
	Active bool       `json:"active"`
	Price  *float64   `json:"price,omitempty"`
	URL    string     `json:"url,omitempty"`
}

type VenueResponse struct {
	ID            string               `json:"id"`
	Type          entity.VenueType     `json:"type"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	Price         float64              `json:"price"`
	Capacity      int                  `json:"capacity"`
	Status        entity.VenueStatus   `json:"status"`
	Owner         OwnerResponse        `json:"owner"`
	Amenities     []string             `json:"amenities"`
	Images        []string             `json:"images"`
	Rating        float64              `json:"rating"`
	TotalBookings int64                `json:"totalBookings"`
	TotalRevenue  float64              `json:"totalRevenue"`
	ShareLink     *ShareLinkResponse   `json:"shareLink,omitempty"`
	BookingLink   *BookingLinkResponse `json:"bookingLink,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type AvailabilityResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	AllSlots       []string `json:"allSlots"`
}

type BookingLinkValidationResponse struct {
	Venue VenueResponse `json:"venue"`
	Price float64       `json:"price"`
}

type ShareLinkValidationResponse struct {
	Venue  VenueResponse `json:"venue"`
	Expiry time.Time     `json:"expiry"`
}

// VenueToResponse renders a venue. Link tokens are only included when withLinks is set,
// which callers do for the owner or a superadmin.
func VenueToResponse(v *entity.Venue, stats entity.VenueStats, withLinks bool) VenueResponse {
	resp := VenueResponse{
		ID:          v.ID.String(),
		Type:        v.Type,
		Name:        v.Name,
		Description: v.Description,
		Location:    v.Location,
		Price:       v.Price,
		Capacity:    v.Capacity,
		Status:      v.Status,
		Owner: OwnerResponse{
			Name:  v.Owner.Name,
			Email: v.Owner.Email.String(),
			Phone: v.Owner.Phone,
		},
		Amenities:     nonNilStrings(v.Amenities),
		Images:        nonNilStrings(v.Images),
		Rating:        v.Rating,
		TotalBookings: stats.TotalBookings,
		TotalRevenue:  stats.TotalRevenue,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}

	if withLinks {
		resp.ShareLink = &ShareLinkResponse{
			Token:  v.ShareLink.Token,
			Expiry: v.ShareLink.Expiry,
			Active: v.ShareLink.Active,
		}
		resp.BookingLink = &BookingLinkResponse{
			Token:  v.BookingLink.Token,
			Expiry: v.BookingLink.Expiry,
			Active: v.BookingLink.Active,
			Price:  v.BookingLink.Price,
		}
	}

	return resp
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type DeleteVenueResponse struct {
	Bookings      int64 `json:"bookings"`
	ImagesRemoved int   `json:"imagesRemoved"`
}
