package request

type ShareLinkRequest struct {
	ExpiryDays *int `json:"expiryDays" validate:"omitempty,min=1,max=365"`
}

type BookingLinkRequest struct {
	ExpiryHours *int     `json:"expiryHours" validate:"omitempty,min=1,max=8760"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

type ValidateLinkRequest struct {
	VenueID string `json:"venueId" validate:"required,uuid"`
	Token   string `json:"token" validate:"required"`
}
